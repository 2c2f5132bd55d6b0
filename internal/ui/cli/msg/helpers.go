package msg

import (
	"github.com/dispatchbot/dispatch/internal/agent"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/spf13/cobra"
)

// resolveConversation picks the conversation to send into: the one
// matching the given ID prefix, or a fresh one when none was given.
func resolveConversation(cmd *cobra.Command, a *agent.Agent, repo repository.ConversationRepository, idPrefix string) (*domain.Conversation, error) {
	if idPrefix != "" {
		return repo.GetByPartialID(cmd.Context(), idPrefix)
	}
	return a.NewConversation(cmd.Context())
}
