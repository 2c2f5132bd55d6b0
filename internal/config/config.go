package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

/*
Config System Design:
Hierarchical configuration with the following precedence (highest to
lowest priority):

1. Runtime overrides (CLI flags)
2. Environment variables (secrets and crucial overrides)
3. Local project config (.dispatch/*.dispatch.{yaml,json})
4. Global user config ($XDG_CONFIG_HOME/dispatch/*.dispatch.{yaml,json})
5. Default values (embedded defaults.dispatch.yaml)

Multiple config files per directory merge alphabetically. Lists
combine, maps deep-merge, scalars override.
*/

//go:embed defaults.dispatch.yaml
var defaultConfig []byte

// loader holds the viper instance and merge state while building a
// ConfigSchema
type loader struct {
	v       *viper.Viper
	sources map[string][]configSource
}

type configSource struct {
	value  interface{}
	source string
}

// New loads, merges, and validates the configuration, then applies any
// runtime overrides.
func New(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	l := &loader{
		v:       viper.New(),
		sources: make(map[string][]configSource),
	}

	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	l.v.SetEnvPrefix("DISPATCH")
	l.v.AutomaticEnv()
	if err := bindEnv(l.v); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if err := l.loadConfigFiles(); err != nil {
		return nil, err
	}

	cfg, err := l.unmarshal()
	if err != nil {
		return nil, err
	}

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *loader) loadDefaults() error {
	l.v.SetConfigType("yaml")
	return l.v.ReadConfig(bytes.NewReader(defaultConfig))
}

// findConfigFiles returns all *.dispatch.{yaml,json} files in a directory
func findConfigFiles(dir string) ([]string, error) {
	var files []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".dispatch.yaml") ||
			strings.HasSuffix(name, ".dispatch.json") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

func globalConfigDir() (string, error) {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "dispatch"), nil
}

func (l *loader) loadConfigFiles() error {
	globalDir, err := globalConfigDir()
	if err != nil {
		return err
	}
	localDir := ".dispatch"

	for _, dir := range []string{globalDir, localDir} {
		files, err := findConfigFiles(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		for _, f := range files {
			v := viper.New()
			v.SetConfigFile(f)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config file %s: %w", f, err)
			}

			l.trackSources(v.AllSettings(), f)

			if err := l.mergeConfig(v.AllSettings()); err != nil {
				return fmt.Errorf("error merging config from %s: %w", f, err)
			}
		}
	}

	return nil
}

func (l *loader) mergeConfig(settings map[string]interface{}) error {
	for key, value := range settings {
		existing := l.v.Get(key)
		if existing == nil {
			l.v.Set(key, value)
			continue
		}

		switch existingVal := existing.(type) {
		case []interface{}:
			// Slices append, dropping duplicates
			newSlice, ok := value.([]interface{})
			if !ok {
				return fmt.Errorf("type mismatch for key %s: expected slice, got %T", key, value)
			}
			seen := make(map[interface{}]bool)
			combined := make([]interface{}, 0)
			for _, v := range append(existingVal, newSlice...) {
				if !seen[v] {
					seen[v] = true
					combined = append(combined, v)
				}
			}
			l.v.Set(key, combined)

		case map[string]interface{}:
			newMap, ok := value.(map[string]interface{})
			if !ok {
				return fmt.Errorf("type mismatch for key %s: expected map, got %T", key, value)
			}
			l.v.Set(key, mergeMapRecursive(existingVal, newMap))

		default:
			l.v.Set(key, value)
		}
	}
	return nil
}

func mergeMapRecursive(existing, update map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for k, v := range existing {
		result[k] = v
	}

	for k, v := range update {
		if existing[k] == nil {
			result[k] = v
			continue
		}

		switch existingVal := existing[k].(type) {
		case map[string]interface{}:
			if newVal, ok := v.(map[string]interface{}); ok {
				result[k] = mergeMapRecursive(existingVal, newVal)
			} else {
				result[k] = v
			}
		case []interface{}:
			if newVal, ok := v.([]interface{}); ok {
				result[k] = append(existingVal, newVal...)
			} else {
				result[k] = v
			}
		default:
			result[k] = v
		}
	}

	return result
}

func (l *loader) trackSources(settings map[string]interface{}, filename string) {
	for key, value := range settings {
		l.sources[key] = append(l.sources[key], configSource{
			value:  value,
			source: filename,
		})
	}
}

func (l *loader) unmarshal() (*ConfigSchema, error) {
	var cfg ConfigSchema
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration against the schema
func Validate(cfg *ConfigSchema) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}

	if _, ok := cfg.Presets[cfg.DefaultPreset]; !ok {
		return fmt.Errorf("defaultPreset %q is not a configured preset", cfg.DefaultPreset)
	}

	for name, preset := range cfg.Presets {
		if preset.Profile != "" {
			if _, ok := cfg.Profiles[preset.Profile]; !ok {
				return &UnknownProfileError{Preset: name, Profile: preset.Profile}
			}
		}
		for _, toolset := range preset.Toolsets {
			if _, ok := cfg.Toolsets[toolset]; !ok {
				return fmt.Errorf("preset %q references unknown toolset %q", name, toolset)
			}
		}
	}

	return nil
}

// Print writes the merged configuration to stdout as YAML with secret
// values redacted
func Print(cfg *ConfigSchema) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		log.Printf("Error marshaling config: %v", err)
		return
	}

	var out interface{}
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		log.Printf("Error unmarshaling config: %v", err)
		return
	}

	yamlBytes, err := yaml.Marshal(out)
	if err != nil {
		log.Printf("Error converting to YAML: %v", err)
		return
	}

	for _, line := range strings.Split(string(yamlBytes), "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "key") ||
			strings.Contains(lower, "secret") ||
			strings.Contains(lower, "password") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				fmt.Printf("%s: [REDACTED]\n", parts[0])
				continue
			}
		}
		fmt.Println(line)
	}
}
