package tools

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/dispatchbot/dispatch/internal/domain"
)

// RegisterBuiltins adds the built-in tools to a registry
func RegisterBuiltins(r *Registry) error {
	builtins := []struct {
		tool    domain.Tool
		handler Handler
	}{
		{weatherTool, getWeather},
		{timeTool, getTime},
	}

	for _, b := range builtins {
		if err := r.Register(b.tool, b.handler); err != nil {
			return err
		}
	}
	return nil
}

var weatherTool = domain.Tool{
	Name:        "get_weather",
	Description: "Get weather for a location",
	Parameters: domain.Parameters{
		Type: "object",
		Properties: map[string]domain.Property{
			"location": {
				Type:        "string",
				Description: "City or place name",
			},
			"unit": {
				Type:        "string",
				Description: "Temperature unit",
				Enum:        []string{"celsius", "fahrenheit"},
			},
		},
		Required: []string{"location"},
	},
}

// getWeather returns deterministic fake weather derived from the
// location name. There is no upstream weather service; the tool exists
// so the function-calling loop has something real to execute.
func getWeather(ctx context.Context, args map[string]interface{}) (string, error) {
	location, _ := args["location"].(string)
	if location == "" {
		return "", fmt.Errorf("location is required")
	}

	unit, _ := args["unit"].(string)
	if unit == "" {
		unit = "celsius"
	}

	h := fnv.New32a()
	h.Write([]byte(location))
	tempC := int(h.Sum32()%35) - 5 // -5..29

	temp := tempC
	symbol := "°C"
	if unit == "fahrenheit" {
		temp = tempC*9/5 + 32
		symbol = "°F"
	}

	conditions := []string{"clear", "partly cloudy", "overcast", "rain", "drizzle"}
	condition := conditions[h.Sum32()%uint32(len(conditions))]

	return fmt.Sprintf("%d%s, %s in %s", temp, symbol, condition, location), nil
}

var timeTool = domain.Tool{
	Name:        "get_time",
	Description: "Get the current time, optionally in a specific timezone",
	Parameters: domain.Parameters{
		Type: "object",
		Properties: map[string]domain.Property{
			"timezone": {
				Type:        "string",
				Description: "IANA timezone name, e.g. Europe/London",
			},
		},
		Required: []string{},
	},
}

func getTime(ctx context.Context, args map[string]interface{}) (string, error) {
	loc := time.Local
	if tz, ok := args["timezone"].(string); ok && tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return "", fmt.Errorf("unknown timezone %q: %w", tz, err)
		}
	}
	return time.Now().In(loc).Format(time.RFC1123), nil
}
