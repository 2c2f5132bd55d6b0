package toolscmd

import (
	"fmt"
	"sort"

	"github.com/dispatchbot/dispatch/internal/appState"
	"github.com/dispatchbot/dispatch/internal/mcp"
	"github.com/dispatchbot/dispatch/internal/tools"
	"github.com/spf13/cobra"
)

var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect available tools",
}

var listCmd = &cobra.Command{
	Use:   "ls",
	Short: "List available tools and their parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config

		registry := tools.NewRegistry()
		if err := tools.RegisterBuiltins(registry); err != nil {
			return err
		}

		all := registry.All()
		names := make([]string, 0, len(all))
		for name := range all {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("Built-in tools:")
		for _, name := range names {
			tool := all[name]
			fmt.Printf("  %s: %s\n", name, tool.Description)
			for propName, prop := range tool.Parameters.Properties {
				required := ""
				for _, r := range tool.Parameters.Required {
					if r == propName {
						required = " (required)"
						break
					}
				}
				fmt.Printf("    %s (%s)%s: %s\n", propName, prop.Type, required, prop.Description)
				if len(prop.Enum) > 0 {
					fmt.Printf("      one of: %v\n", prop.Enum)
				}
			}
		}

		if len(cfg.MCPServers) == 0 {
			return nil
		}

		fmt.Println("\nMCP tools:")
		client := mcp.New(cfg.MCPServers)
		if err := client.Initialize(cmd.Context()); err != nil {
			return fmt.Errorf("failed to initialize MCP servers: %w", err)
		}
		defer client.Shutdown()

		client.PrintTools()
		return nil
	},
}

func init() {
	ToolsCmd.AddCommand(listCmd)
}
