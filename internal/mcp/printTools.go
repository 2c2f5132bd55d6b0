package mcp

import (
	"fmt"
	"sort"
)

// PrintTools writes the aggregated tool registry to stdout in YAML form
func (c *Client) PrintTools() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tool := c.tools[name]
		fmt.Printf("%s:\n", name)
		fmt.Printf("  description: %s\n", tool.Description)
		fmt.Printf("  parameters:\n")

		if tool.Parameters.Type != "" {
			fmt.Printf("    type: %s\n", tool.Parameters.Type)
		}

		if len(tool.Parameters.Required) > 0 {
			fmt.Printf("    required:\n")
			for _, req := range tool.Parameters.Required {
				fmt.Printf("      - %s\n", req)
			}
		}

		if len(tool.Parameters.Properties) > 0 {
			fmt.Printf("    properties:\n")
			for propName, prop := range tool.Parameters.Properties {
				fmt.Printf("      %s:\n", propName)
				if prop.Type != "" {
					fmt.Printf("        type: %s\n", prop.Type)
				}
				if prop.Description != "" {
					fmt.Printf("        description: %s\n", prop.Description)
				}
				if len(prop.Enum) > 0 {
					fmt.Printf("        enum:\n")
					for _, enum := range prop.Enum {
						fmt.Printf("          - %s\n", enum)
					}
				}
			}
		}
		fmt.Println()
	}
}
