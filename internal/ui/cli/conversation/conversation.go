package conversation

import (
	"github.com/spf13/cobra"
)

var ConversationCmd = &cobra.Command{
	Use:     "conversation",
	Aliases: []string{"conv"},
	Short:   "Manage conversations",
}
