package msg

import (
	"github.com/spf13/cobra"
)

var MsgCmd = &cobra.Command{
	Use:   "msg",
	Short: "Send messages",
	Long:  `Send messages to a model and inspect its function calls.`,
}

func init() {
	MsgCmd.AddCommand(sendCmd)
}
