package safety

import (
	"context"
	"unicode/utf8"

	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/pkg/errors"
)

// Moderator classifies text as harmful or not. Implementations may
// call out to a model; the pipeline treats moderation as optional.
type Moderator interface {
	Moderate(ctx context.Context, text string) (flagged bool, categories []string, err error)
}

// Details explains why input was blocked or altered
type Details struct {
	PIIDetected    bool      `json:"pii_detected"`
	HarmfulContent bool      `json:"harmful_content"`
	LengthExceeded bool      `json:"length_exceeded"`
	Findings       []Finding `json:"findings,omitempty"`
	Categories     []string  `json:"categories,omitempty"`
}

// Result is the outcome of a pipeline check
type Result struct {
	Safe      bool
	Processed string
	Details   Details
}

// Pipeline runs layered input/output checks: length cap, PII
// detection with optional redaction, then moderation.
type Pipeline struct {
	cfg       config.Safety
	moderator Moderator
}

func NewPipeline(cfg config.Safety, moderator Moderator) *Pipeline {
	return &Pipeline{cfg: cfg, moderator: moderator}
}

// CheckInput validates user input before it reaches the model.
// Processed always carries the text to use: redacted when redaction is
// on, verbatim otherwise.
func (p *Pipeline) CheckInput(ctx context.Context, text string) (Result, error) {
	result := Result{Safe: true, Processed: text}

	// MaxInputLength caps characters, not bytes
	if p.cfg.MaxInputLength > 0 && utf8.RuneCountInString(text) > p.cfg.MaxInputLength {
		result.Safe = false
		result.Details.LengthExceeded = true
		return result, nil
	}

	findings := DetectPII(text)
	if len(findings) > 0 {
		result.Details.PIIDetected = true
		result.Details.Findings = findings

		if p.cfg.RedactPII {
			result.Processed = RedactPII(text)
		}
		if p.cfg.BlockOnPII {
			result.Safe = false
			return result, nil
		}
	}

	if p.cfg.Moderation && p.moderator != nil {
		flagged, categories, err := p.moderator.Moderate(ctx, result.Processed)
		if err != nil {
			return Result{}, errors.Wrap(err, "moderation failed")
		}
		if flagged {
			result.Safe = false
			result.Details.HarmfulContent = true
			result.Details.Categories = categories
		}
	}

	return result, nil
}

// CheckOutput validates model output before it is shown to the user
func (p *Pipeline) CheckOutput(ctx context.Context, text string) (Result, error) {
	result := Result{Safe: true, Processed: text}

	if !p.cfg.Moderation || p.moderator == nil {
		return result, nil
	}

	flagged, categories, err := p.moderator.Moderate(ctx, text)
	if err != nil {
		return Result{}, errors.Wrap(err, "moderation failed")
	}
	if flagged {
		result.Safe = false
		result.Details.HarmfulContent = true
		result.Details.Categories = categories
	}

	return result, nil
}
