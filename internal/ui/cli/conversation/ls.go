package conversation

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dispatchbot/dispatch/internal/appState"
	"github.com/dispatchbot/dispatch/internal/repository/sqlite"
	"github.com/spf13/cobra"
)

var limitFlag int

var listCmd = &cobra.Command{
	Use:   "ls",
	Short: "List conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appState.Get().Config
		repo, err := sqlite.Initialize(cfg.DBPath)
		if err != nil {
			return err
		}

		convs, err := repo.List(cmd.Context(), limitFlag)
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCreated\tMessages\tPreview")

		for _, conv := range convs {
			messages, err := repo.GetMessages(cmd.Context(), conv.ID)
			if err != nil {
				return fmt.Errorf("failed to get messages: %w", err)
			}

			preview := previewText(conv.Summary, messages)

			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				conv.ID.String()[:8],
				conv.CreatedAt.Format(time.RFC822),
				len(messages),
				preview,
			)
		}
		w.Flush()

		return nil
	},
}

func init() {
	listCmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Limit the number of conversations to show (0 for all)")
	ConversationCmd.AddCommand(listCmd)
}
