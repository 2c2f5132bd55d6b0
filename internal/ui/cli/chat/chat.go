package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dispatchbot/dispatch/internal/shared"
	"github.com/dispatchbot/dispatch/internal/tui"
	"github.com/spf13/cobra"
)

var presetFlag string

var ChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, repo, cleanup, err := shared.InitializeAgent(ctx, presetFlag)
		if err != nil {
			return err
		}
		defer cleanup()

		p := tea.NewProgram(
			tui.NewModel(a, repo),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		_, err = p.Run()
		return err
	},
}

func init() {
	ChatCmd.Flags().StringVarP(&presetFlag, "preset", "p", "", "Model preset to use")
}
