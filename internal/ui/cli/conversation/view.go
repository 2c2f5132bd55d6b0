package conversation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dispatchbot/dispatch/internal/appState"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/repository/sqlite"
	"github.com/spf13/cobra"
)

var viewLimitFlag int

var viewCmd = &cobra.Command{
	Use:   "view [conversation_id]",
	Short: "View messages in a conversation",
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

		fmt.Printf("Conversation %s (created %s)\n\n",
			conv.ID.String()[:8],
			conv.CreatedAt.Format(time.RFC822),
		)

		messages := conv.Messages
		if viewLimitFlag > 0 && len(messages) > viewLimitFlag {
			messages = messages[len(messages)-viewLimitFlag:]
		}

		for _, msg := range messages {
			roleStr := "You"
			switch msg.Role {
			case domain.RoleAssistant:
				roleStr = "Assistant"
			case domain.RoleSystem:
				roleStr = "System"
			case domain.RoleTool:
				roleStr = "Tool"
			}
			fmt.Printf("%s - %s: %s\n", msg.ID.String()[:8], roleStr, msg.Content)

			if msg.ToolCalls != "" {
				var calls []domain.ToolCall
				if err := json.Unmarshal([]byte(msg.ToolCalls), &calls); err == nil {
					for _, call := range calls {
						fmt.Printf("    Function: %s\n", call.Name)
						fmt.Printf("    Arguments: %s\n", string(call.Arguments))
					}
				}
			}
		}

		return nil
	},
}

func init() {
	viewCmd.Flags().IntVarP(&viewLimitFlag, "limit", "n", 0, "Show only the last N messages (0 for all)")
	ConversationCmd.AddCommand(viewCmd)
}
