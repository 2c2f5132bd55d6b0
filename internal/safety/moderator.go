package safety

import (
	"context"
	"strings"

	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/llm"
	"github.com/pkg/errors"
)

const moderationPrompt = `You are a content moderation system. Classify the following text.
Reply with exactly "SAFE" if the text is acceptable, or "FLAGGED: <comma-separated categories>" if it contains harassment, hate, self-harm, sexual content involving minors, or incitement to violence.

Text:
`

// LLMModerator implements Moderator with a zero-temperature
// classification round trip against a configured model preset.
type LLMModerator struct {
	preset config.ModelPreset
}

func NewLLMModerator(preset config.ModelPreset) *LLMModerator {
	preset.Temperature = 0
	if preset.MaxTokens == 0 || preset.MaxTokens > 100 {
		preset.MaxTokens = 100
	}
	return &LLMModerator{preset: preset}
}

func (m *LLMModerator) Moderate(ctx context.Context, text string) (bool, []string, error) {
	resp, err := llm.GenerateContent(ctx, m.preset, moderationPrompt+text, nil, map[string]domain.Tool{}, nil)
	if err != nil {
		return false, nil, errors.Wrap(err, "moderation request failed")
	}

	verdict := strings.TrimSpace(resp.TextResponse)
	if strings.HasPrefix(verdict, "FLAGGED") {
		var categories []string
		if _, rest, found := strings.Cut(verdict, ":"); found {
			for _, c := range strings.Split(rest, ",") {
				if c = strings.TrimSpace(c); c != "" {
					categories = append(categories, c)
				}
			}
		}
		return true, categories, nil
	}

	return false, nil, nil
}
