package domain

import (
	"encoding/json"
	"fmt"
)

// ValidateArguments checks a raw argument payload against a tool's
// parameter schema before execution: required properties must be
// present, types must match, enum values must be allowed, and unknown
// properties are rejected.
func ValidateArguments(args json.RawMessage, tool Tool) error {
	var parsed map[string]interface{}
	if err := json.Unmarshal(args, &parsed); err != nil {
		return fmt.Errorf("invalid argument format: %w", err)
	}

	for _, required := range tool.Parameters.Required {
		if _, exists := parsed[required]; !exists {
			return fmt.Errorf("missing required parameter: %s", required)
		}
	}

	for name, value := range parsed {
		prop, exists := tool.Parameters.Properties[name]
		if !exists {
			return fmt.Errorf("unknown parameter: %s", name)
		}
		if err := validateProperty(name, value, prop); err != nil {
			return err
		}
	}

	return nil
}

func validateProperty(name string, value interface{}, prop Property) error {
	switch prop.Type {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("parameter %s must be a string", name)
		}
	case "number":
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("parameter %s must be a number", name)
		}
	case "integer":
		f, ok := value.(float64)
		if !ok || f != float64(int64(f)) {
			return fmt.Errorf("parameter %s must be an integer", name)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("parameter %s must be a boolean", name)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("parameter %s must be an array", name)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("parameter %s must be an object", name)
		}
	}

	if len(prop.Enum) > 0 {
		if strVal, ok := value.(string); ok {
			valid := false
			for _, enum := range prop.Enum {
				if strVal == enum {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("parameter %s must be one of: %v", name, prop.Enum)
			}
		}
	}

	return nil
}
