package config

// ModelPreset is a named model configuration. A preset may reference a
// sampling profile; profile values fill in anything the preset leaves
// unset.
type ModelPreset struct {
	Provider      string   `mapstructure:"provider" json:"provider" validate:"required,oneof=openai anthropic googleai" jsonschema:"enum=openai,enum=anthropic,enum=googleai"`
	Name          string   `mapstructure:"name" json:"name" validate:"required"`
	Temperature   float64  `mapstructure:"temperature" json:"temperature,omitempty" validate:"gte=0,lte=2"`
	MaxTokens     int      `mapstructure:"maxTokens" json:"maxTokens,omitempty" validate:"gte=0"`
	TopP          float64  `mapstructure:"topP" json:"topP,omitempty" validate:"gte=0,lte=1"`
	Stop          []string `mapstructure:"stop" json:"stop,omitempty"`
	Profile       string   `mapstructure:"profile" json:"profile,omitempty"`
	Toolsets      []string `mapstructure:"toolsets" json:"toolsets,omitempty"`
	SystemMessage string   `mapstructure:"systemMessage" json:"systemMessage,omitempty"`
}

// Profile is a reusable set of sampling parameters for a class of task
// (deterministic code generation, documentation, creative text, data
// extraction).
type Profile struct {
	Temperature float64  `mapstructure:"temperature" json:"temperature" validate:"gte=0,lte=2"`
	TopP        float64  `mapstructure:"topP" json:"topP" validate:"gte=0,lte=1"`
	MaxTokens   int      `mapstructure:"maxTokens" json:"maxTokens" validate:"gte=0"`
	Stop        []string `mapstructure:"stop" json:"stop,omitempty"`
}

// ToolConfig configures a single tool within a toolset
type ToolConfig struct {
	RequireApproval  bool              `mapstructure:"requireApproval" json:"requireApproval,omitempty"`
	PresetParameters map[string]string `mapstructure:"presetParameters" json:"presetParameters,omitempty"`
}

// Toolset names a group of tools a preset may advertise
type Toolset struct {
	Tools         map[string]ToolConfig `mapstructure:"tools" json:"tools,omitempty"`
	SystemMessage string                `mapstructure:"systemMessage" json:"systemMessage,omitempty"`
}

// MCPServer configures one external tool server spawned over stdio
type MCPServer struct {
	Command       string            `mapstructure:"command" json:"command" validate:"required"`
	Args          []string          `mapstructure:"args" json:"args,omitempty"`
	Env           map[string]string `mapstructure:"env" json:"env,omitempty"`
	SystemMessage string            `mapstructure:"systemMessage" json:"systemMessage,omitempty"`
}

// Safety configures the input/output safety pipeline
type Safety struct {
	MaxInputLength int  `mapstructure:"maxInputLength" json:"maxInputLength" validate:"gte=0"`
	BlockOnPII     bool `mapstructure:"blockOnPII" json:"blockOnPII"`
	RedactPII      bool `mapstructure:"redactPII" json:"redactPII"`
	Moderation     bool `mapstructure:"moderation" json:"moderation"`
}

// Agent configures the function-calling loop
type Agent struct {
	AutoApproveFunctions bool `mapstructure:"autoApproveFunctions" json:"autoApproveFunctions"`
	MaxIterations        int  `mapstructure:"maxIterations" json:"maxIterations" validate:"gte=1"`
	MaxToolResultLength  int  `mapstructure:"maxToolResultLength" json:"maxToolResultLength" validate:"gte=0"`
	HistoryTokenBudget   int  `mapstructure:"historyTokenBudget" json:"historyTokenBudget" validate:"gte=0"`
}

// Log configures logging
type Log struct {
	LogLevel string `mapstructure:"logLevel" json:"logLevel" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	LogFile  string `mapstructure:"logFile" json:"logFile,omitempty"`
}

// ConfigSchema is the fully merged configuration
type ConfigSchema struct {
	DefaultPreset string                 `mapstructure:"defaultPreset" json:"defaultPreset" validate:"required"`
	Presets       map[string]ModelPreset `mapstructure:"presets" json:"presets" validate:"required,dive"`
	Profiles      map[string]Profile     `mapstructure:"profiles" json:"profiles,omitempty" validate:"dive"`
	Toolsets      map[string]Toolset     `mapstructure:"toolsets" json:"toolsets,omitempty"`
	MCPServers    map[string]MCPServer   `mapstructure:"mcpServers" json:"mcpServers,omitempty" validate:"dive"`
	Safety        Safety                 `mapstructure:"safety" json:"safety"`
	Agent         Agent                  `mapstructure:"agent" json:"agent"`
	DBPath        string                 `mapstructure:"dbPath" json:"dbPath" validate:"required"`
	Log           Log                    `mapstructure:"log" json:"log"`
}

// ResolvePreset returns the named preset (or the default when name is
// empty) with its profile applied.
func (c *ConfigSchema) ResolvePreset(name string) (ModelPreset, error) {
	if name == "" {
		name = c.DefaultPreset
	}
	preset, ok := c.Presets[name]
	if !ok {
		return ModelPreset{}, &UnknownPresetError{Name: name}
	}

	if preset.Profile != "" {
		profile, ok := c.Profiles[preset.Profile]
		if !ok {
			return ModelPreset{}, &UnknownProfileError{Preset: name, Profile: preset.Profile}
		}
		preset = applyProfile(preset, profile)
	}

	return preset, nil
}

// applyProfile fills preset fields left at their zero value from the
// profile. A zero value is treated as unset, so a preset cannot pin
// temperature or top_p to 0 while referencing a profile that sets
// them; omit the profile reference to use literal zeros.
func applyProfile(preset ModelPreset, profile Profile) ModelPreset {
	if preset.Temperature == 0 {
		preset.Temperature = profile.Temperature
	}
	if preset.TopP == 0 {
		preset.TopP = profile.TopP
	}
	if preset.MaxTokens == 0 {
		preset.MaxTokens = profile.MaxTokens
	}
	if len(preset.Stop) == 0 {
		preset.Stop = profile.Stop
	}
	return preset
}
