package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dispatchbot/dispatch/internal/appState"
	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/dispatchbot/dispatch/internal/ui/cli/chat"
	configCmd "github.com/dispatchbot/dispatch/internal/ui/cli/configcmd"
	"github.com/dispatchbot/dispatch/internal/ui/cli/conversation"
	"github.com/dispatchbot/dispatch/internal/ui/cli/msg"
	toolsCmd "github.com/dispatchbot/dispatch/internal/ui/cli/toolscmd"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:               "dispatch",
	Short:             "Chat with language models that can call your functions",
	Long:              `dispatch is a CLI for chat-completion providers with function calling, conversation history, and an input/output safety pipeline.`,
	DisableAutoGenTag: true,
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (defaults to stderr)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		overrides := &config.RuntimeOverrides{}
		if logLevel != "" {
			overrides.LogLevel = &logLevel
		}
		if logFile != "" {
			overrides.LogFile = &logFile
		}
		return appState.Initialize(overrides)
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Cleanup()
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		msg.MsgCmd,
		conversation.ConversationCmd,
		toolsCmd.ToolsCmd,
		configCmd.ConfigCmd,
		chat.ChatCmd,
	)
}
