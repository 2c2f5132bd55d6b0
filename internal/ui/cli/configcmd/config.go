package configcmd

import (
	"encoding/json"
	"fmt"

	"github.com/dispatchbot/dispatch/internal/appState"
	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/spf13/cobra"
)

var schemaFlag bool

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the merged configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if schemaFlag {
			schema, err := config.GenerateJSONSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		config.Print(appState.Get().Config)
		return nil
	},
}

func init() {
	ConfigCmd.Flags().BoolVar(&schemaFlag, "schema", false, "Print the configuration JSON schema instead of the config")
}
