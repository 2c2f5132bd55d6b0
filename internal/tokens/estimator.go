package tokens

import (
	"strings"
	"unicode/utf8"

	"github.com/dispatchbot/dispatch/internal/domain"
)

// Estimate approximates the token count of text. BPE vocabularies
// average roughly four characters per token for English prose, and a
// token never spans more than one word boundary in practice, so the
// estimate is the character heuristic floored by the word count.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	byChars := (utf8.RuneCountInString(text) + 3) / 4
	byWords := len(strings.Fields(text))
	if byWords > byChars {
		return byWords
	}
	return byChars
}

// EstimateMessages sums the estimate over a message history, charging a
// small per-message overhead for role framing.
func EstimateMessages(messages []domain.Message) int {
	const perMessageOverhead = 4
	total := 0
	for _, msg := range messages {
		total += Estimate(msg.Content) + perMessageOverhead
	}
	return total
}

// Budget drops the oldest messages until the history estimate fits
// within maxTokens. System messages are kept. A budget of 0 disables
// trimming.
func Budget(messages []domain.Message, maxTokens int) []domain.Message {
	if maxTokens <= 0 || EstimateMessages(messages) <= maxTokens {
		return messages
	}

	var system []domain.Message
	var rest []domain.Message
	for _, msg := range messages {
		if msg.Role == domain.RoleSystem {
			system = append(system, msg)
		} else {
			rest = append(rest, msg)
		}
	}

	budget := maxTokens - EstimateMessages(system)
	kept := rest
	for len(kept) > 0 && EstimateMessages(kept) > budget {
		kept = kept[1:]
	}

	result := make([]domain.Message, 0, len(system)+len(kept))
	result = append(result, system...)
	result = append(result, kept...)
	return result
}
