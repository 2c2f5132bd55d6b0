package tools

import (
	"fmt"

	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/dispatchbot/dispatch/internal/domain"
)

// ToolWithApproval pairs an advertised tool with its approval policy
type ToolWithApproval struct {
	domain.Tool
	RequireApproval bool
}

// FilterForPreset builds the tool selection a model preset advertises:
// the union of its toolsets, with preset parameters stripped from each
// schema and approval flags attached.
func (r *Registry) FilterForPreset(presetToolsets []string, toolsets map[string]config.Toolset) (*Registry, map[string]ToolWithApproval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := NewRegistry()
	advertised := make(map[string]ToolWithApproval)

	for _, toolsetName := range presetToolsets {
		toolset, ok := toolsets[toolsetName]
		if !ok {
			return nil, nil, fmt.Errorf("toolset %q not found", toolsetName)
		}

		for toolName, toolCfg := range toolset.Tools {
			t, exists := r.tools[toolName]
			if !exists {
				return nil, nil, domain.ToolNotFoundError{Name: toolName}
			}

			tool := t.tool
			if len(toolCfg.PresetParameters) > 0 {
				tool = stripPresetParameters(tool, toolCfg.PresetParameters)
			}

			filtered.tools[toolName] = registeredTool{
				tool:    tool,
				handler: t.handler,
				preset:  toolCfg.PresetParameters,
			}
			advertised[toolName] = ToolWithApproval{
				Tool:            tool,
				RequireApproval: toolCfg.RequireApproval,
			}
		}
	}

	return filtered, advertised, nil
}

// stripPresetParameters removes pinned parameters from the advertised
// schema; the model never sees them, Execute injects their values.
func stripPresetParameters(original domain.Tool, presets map[string]string) domain.Tool {
	modified := original

	newProps := make(map[string]domain.Property)
	newRequired := make([]string, 0)

	for name, prop := range original.Parameters.Properties {
		if _, isPreset := presets[name]; isPreset {
			continue
		}
		newProps[name] = prop
		for _, req := range original.Parameters.Required {
			if req == name {
				newRequired = append(newRequired, name)
			}
		}
	}

	modified.Parameters = domain.Parameters{
		Type:       original.Parameters.Type,
		Properties: newProps,
		Required:   newRequired,
	}

	return modified
}
