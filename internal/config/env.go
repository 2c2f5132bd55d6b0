package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envVarConfig defines an environment variable mapping
type envVarConfig struct {
	key      string // Key in the config
	envVar   string // Environment variable name
	isSecret bool   // Whether to redact in logs
}

// Provider API keys stay in the environment where the provider SDKs
// read them; they are bound here only so their presence is visible to
// config introspection.
var envVars = []envVarConfig{
	{key: "keys.openai", envVar: "OPENAI_API_KEY", isSecret: true},
	{key: "keys.anthropic", envVar: "ANTHROPIC_API_KEY", isSecret: true},
	{key: "keys.googleai", envVar: "GEMINI_API_KEY", isSecret: true},
	{key: "dbPath", envVar: "DISPATCH_DB_PATH", isSecret: false},
}

func bindEnv(v *viper.Viper) error {
	// Load a .env file if present, falling back to ~/.dispatch.env
	if err := godotenv.Load(); err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			_ = godotenv.Load(filepath.Join(home, ".dispatch.env"))
		}
	}

	for _, env := range envVars {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return err
		}
	}
	return nil
}
