package config

// RuntimeOverrides holds configuration values that can be overridden at
// runtime via CLI flags
type RuntimeOverrides struct {
	DefaultPreset *string
	MaxTokens     *int
	Temperature   *float64
	LogLevel      *string
	LogFile       *string
}

func applyOverrides(cfg *ConfigSchema, overrides *RuntimeOverrides) error {
	if overrides == nil {
		return nil
	}

	if overrides.DefaultPreset != nil {
		if _, exists := cfg.Presets[*overrides.DefaultPreset]; !exists {
			return &UnknownPresetError{Name: *overrides.DefaultPreset}
		}
		cfg.DefaultPreset = *overrides.DefaultPreset
	}

	preset := cfg.Presets[cfg.DefaultPreset]
	if overrides.MaxTokens != nil {
		preset.MaxTokens = *overrides.MaxTokens
	}
	if overrides.Temperature != nil {
		preset.Temperature = *overrides.Temperature
	}
	cfg.Presets[cfg.DefaultPreset] = preset

	if overrides.LogLevel != nil {
		cfg.Log.LogLevel = *overrides.LogLevel
	}
	if overrides.LogFile != nil {
		cfg.Log.LogFile = *overrides.LogFile
	}

	return nil
}
