package msg

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dispatchbot/dispatch/internal/agent"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/shared"
	"github.com/spf13/cobra"
)

var (
	conversationFlag string
	presetFlag       string
	noStreamFlag     bool
)

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a single message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, repo, cleanup, err := shared.InitializeAgent(ctx, presetFlag)
		if err != nil {
			return err
		}
		defer cleanup()

		conv, err := resolveConversation(cmd, a, repo, conversationFlag)
		if err != nil {
			return err
		}

		opts := agent.SendMessageOptions{
			ConversationID: conv.ID,
			Content:        args[0],
		}
		if !noStreamFlag {
			opts.StreamHandler = &CLIStreamHandler{
				originalCallback: func(chunk []byte) error {
					fmt.Print(string(chunk))
					return nil
				},
			}
		}

		reply, err := a.SendMessage(ctx, opts)

		var pending *agent.PendingFunctionCallError
		if errors.As(err, &pending) {
			if noStreamFlag {
				printToolCall(pending.ToolCall)
			}
			fmt.Println("\nThis function call requires approval. Re-run with auto-approval enabled, or deny it with a followup message.")
			return nil
		}
		if err != nil {
			return err
		}

		if noStreamFlag {
			if reply.Content != "" {
				fmt.Println(reply.Content)
			}
			printToolCalls(reply)
		}
		return nil
	},
}

// printToolCalls prints every function call recorded on a message:
// its name and the raw argument string as the provider returned it.
func printToolCalls(reply *domain.Message) {
	if reply.ToolCalls == "" {
		return
	}
	var calls []domain.ToolCall
	if err := json.Unmarshal([]byte(reply.ToolCalls), &calls); err != nil {
		return
	}
	for _, call := range calls {
		printToolCall(call)
	}
}

func printToolCall(call domain.ToolCall) {
	fmt.Printf("Function: %s\n", call.Name)
	fmt.Printf("Arguments: %s\n", string(call.Arguments))
}

func init() {
	sendCmd.Flags().StringVarP(&conversationFlag, "conversation", "c", "", "Conversation ID prefix to continue (defaults to a new conversation)")
	sendCmd.Flags().StringVarP(&presetFlag, "preset", "p", "", "Model preset to use")
	sendCmd.Flags().BoolVarP(&noStreamFlag, "no-stream", "n", false, "Disable streaming of responses")
}
