package config

import (
	"testing"

	"github.com/spf13/viper"
)

func baseConfig() *ConfigSchema {
	return &ConfigSchema{
		DefaultPreset: "default",
		Presets: map[string]ModelPreset{
			"default": {
				Provider:    "openai",
				Name:        "gpt-4o",
				Temperature: 0.7,
				MaxTokens:   2048,
			},
			"extract": {
				Provider: "anthropic",
				Name:     "claude-3-5-sonnet-latest",
				Profile:  "extract",
			},
		},
		Profiles: map[string]Profile{
			"extract": {Temperature: 0.1, TopP: 0.9, MaxTokens: 1024},
		},
		DBPath: "test.db",
	}
}

func TestResolvePresetDefault(t *testing.T) {
	cfg := baseConfig()

	preset, err := cfg.ResolvePreset("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset.Name != "gpt-4o" {
		t.Errorf("resolved %q, want the default preset", preset.Name)
	}
}

func TestResolvePresetUnknown(t *testing.T) {
	cfg := baseConfig()
	if _, err := cfg.ResolvePreset("nope"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestResolvePresetAppliesProfile(t *testing.T) {
	cfg := baseConfig()

	preset, err := cfg.ResolvePreset("extract")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset.Temperature != 0.1 {
		t.Errorf("temperature = %v, want profile value 0.1", preset.Temperature)
	}
	if preset.TopP != 0.9 {
		t.Errorf("topP = %v, want profile value 0.9", preset.TopP)
	}
	if preset.MaxTokens != 1024 {
		t.Errorf("maxTokens = %v, want profile value 1024", preset.MaxTokens)
	}
}

func TestResolvePresetExplicitValuesWin(t *testing.T) {
	cfg := baseConfig()
	p := cfg.Presets["extract"]
	p.Temperature = 0.5
	cfg.Presets["extract"] = p

	preset, err := cfg.ResolvePreset("extract")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if preset.Temperature != 0.5 {
		t.Errorf("preset value must beat the profile, got %v", preset.Temperature)
	}
}

func TestResolvePresetZeroTreatedAsUnset(t *testing.T) {
	cfg := baseConfig()
	p := cfg.Presets["extract"]
	p.Temperature = 0
	cfg.Presets["extract"] = p

	preset, err := cfg.ResolvePreset("extract")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// A zero value is indistinguishable from unset, so the profile
	// fills it in. Presets that need a literal zero must not
	// reference a profile.
	if preset.Temperature != 0.1 {
		t.Errorf("temperature = %v, want profile value 0.1", preset.Temperature)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(baseConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := baseConfig()
	cfg.DefaultPreset = "missing"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for dangling defaultPreset")
	}

	cfg = baseConfig()
	p := cfg.Presets["default"]
	p.Provider = "cohere"
	cfg.Presets["default"] = p
	if err := Validate(cfg); err == nil {
		t.Error("expected error for unsupported provider")
	}

	cfg = baseConfig()
	p = cfg.Presets["default"]
	p.Profile = "nope"
	cfg.Presets["default"] = p
	if err := Validate(cfg); err == nil {
		t.Error("expected error for dangling profile reference")
	}

	cfg = baseConfig()
	p = cfg.Presets["default"]
	p.Toolsets = []string{"nope"}
	cfg.Presets["default"] = p
	if err := Validate(cfg); err == nil {
		t.Error("expected error for dangling toolset reference")
	}
}

func newTestLoader(t *testing.T, base map[string]interface{}) *loader {
	t.Helper()
	l := &loader{
		v:       viper.New(),
		sources: make(map[string][]configSource),
	}
	for k, v := range base {
		l.v.Set(k, v)
	}
	return l
}

func TestMergeConfigScalarsOverride(t *testing.T) {
	l := newTestLoader(t, map[string]interface{}{"dbpath": "default.db"})

	if err := l.mergeConfig(map[string]interface{}{"dbpath": "local.db"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := l.v.GetString("dbpath"); got != "local.db" {
		t.Errorf("dbpath = %q, want local.db", got)
	}
}

func TestMergeConfigSlicesAppend(t *testing.T) {
	l := newTestLoader(t, map[string]interface{}{
		"toolsetnames": []interface{}{"weather", "files"},
	})

	err := l.mergeConfig(map[string]interface{}{
		"toolsetnames": []interface{}{"files", "search"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := l.v.Get("toolsetnames").([]interface{})
	want := []interface{}{"weather", "files", "search"}
	if len(got) != len(want) {
		t.Fatalf("merged slice = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("merged slice = %v, want %v", got, want)
			break
		}
	}
}

func TestMergeConfigMapsDeepMerge(t *testing.T) {
	l := newTestLoader(t, map[string]interface{}{
		"presets": map[string]interface{}{
			"default": map[string]interface{}{
				"provider": "openai",
				"name":     "gpt-4o",
			},
		},
	})

	err := l.mergeConfig(map[string]interface{}{
		"presets": map[string]interface{}{
			"default": map[string]interface{}{
				"temperature": 0.2,
			},
			"fast": map[string]interface{}{
				"provider": "openai",
				"name":     "gpt-4o-mini",
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := l.v.Get("presets").(map[string]interface{})
	def := merged["default"].(map[string]interface{})
	if def["name"] != "gpt-4o" {
		t.Errorf("existing key lost in merge: %v", def)
	}
	if def["temperature"] != 0.2 {
		t.Errorf("new key not merged: %v", def)
	}
	if _, ok := merged["fast"]; !ok {
		t.Error("sibling preset lost in merge")
	}
}

func TestMergeConfigTypeMismatch(t *testing.T) {
	l := newTestLoader(t, map[string]interface{}{
		"toolsetnames": []interface{}{"weather"},
	})

	if err := l.mergeConfig(map[string]interface{}{"toolsetnames": "files"}); err == nil {
		t.Fatal("expected type mismatch error")
	}
}
