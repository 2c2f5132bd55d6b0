package conversation

import "github.com/dispatchbot/dispatch/internal/domain"

// previewText picks a one-line preview for a conversation: its summary
// when present, otherwise the first human message.
func previewText(summary string, messages []domain.Message) string {
	if summary != "" {
		return truncatePreview(summary, 50)
	}
	for _, msg := range messages {
		if msg.Role == domain.RoleHuman {
			return truncatePreview(msg.Content, 50)
		}
	}
	return "[empty]"
}

// truncatePreview shortens s to at most max characters. It counts
// runes, not bytes, so multi-byte text is never cut mid-character.
func truncatePreview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
