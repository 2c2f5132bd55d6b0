package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/dispatchbot/dispatch/internal/appState"
	"github.com/dispatchbot/dispatch/internal/repository/sqlite"
	"github.com/spf13/cobra"
)

var forceFlag bool

var deleteCmd = &cobra.Command{
	Use:   "rm [conversation_id]",
	Short: "Delete a conversation and all its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config
		repo, err := sqlite.Initialize(cfg.DBPath)
		if err != nil {
			return err
		}

		conv, err := repo.GetByPartialID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to find conversation: %w", err)
		}

		preview := previewText(conv.Summary, conv.Messages)

		fmt.Printf("About to delete conversation %s:\n", conv.ID.String()[:8])
		fmt.Printf("Created: %s\n", conv.CreatedAt.Format(time.RFC822))
		fmt.Printf("Messages: %d\n", len(conv.Messages))
		fmt.Printf("Preview: %s\n", preview)

		if !forceFlag {
			fmt.Print("\nAre you sure you want to delete this conversation? [y/N] ")
			var response string
			if _, err := fmt.Scanln(&response); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			response = strings.ToLower(strings.TrimSpace(response))
			if response != "y" && response != "yes" {
				fmt.Println("Operation cancelled")
				return nil
			}
		}

		if err := repo.Delete(cmd.Context(), conv.ID); err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}

		fmt.Println("Conversation deleted successfully")
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Delete without confirmation")
	ConversationCmd.AddCommand(deleteCmd)
}
