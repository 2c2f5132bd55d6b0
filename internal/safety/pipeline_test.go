package safety

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dispatchbot/dispatch/internal/config"
)

type fakeModerator struct {
	flagged    bool
	categories []string
	err        error
	called     bool
}

func (m *fakeModerator) Moderate(ctx context.Context, text string) (bool, []string, error) {
	m.called = true
	return m.flagged, m.categories, m.err
}

func TestCheckInputLengthCap(t *testing.T) {
	p := NewPipeline(config.Safety{MaxInputLength: 10}, nil)

	result, err := p.CheckInput(context.Background(), strings.Repeat("x", 11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Safe {
		t.Error("over-length input must be unsafe")
	}
	if !result.Details.LengthExceeded {
		t.Error("expected LengthExceeded detail")
	}
}

func TestCheckInputLengthCapCountsRunes(t *testing.T) {
	p := NewPipeline(config.Safety{MaxInputLength: 10}, nil)

	// 10 characters, 30 bytes: within the cap
	result, err := p.CheckInput(context.Background(), strings.Repeat("日", 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Safe {
		t.Error("input at the character cap must pass")
	}

	result, err = p.CheckInput(context.Background(), strings.Repeat("日", 11))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Safe {
		t.Error("input over the character cap must be unsafe")
	}
}

func TestCheckInputRedacts(t *testing.T) {
	p := NewPipeline(config.Safety{MaxInputLength: 1000, RedactPII: true}, nil)

	result, err := p.CheckInput(context.Background(), "my email is jane@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Safe {
		t.Error("redaction mode must not block")
	}
	if !result.Details.PIIDetected {
		t.Error("expected PIIDetected detail")
	}
	if strings.Contains(result.Processed, "jane@example.com") {
		t.Errorf("processed text still carries the email: %q", result.Processed)
	}
}

func TestCheckInputBlocksOnPII(t *testing.T) {
	p := NewPipeline(config.Safety{MaxInputLength: 1000, BlockOnPII: true}, nil)

	result, err := p.CheckInput(context.Background(), "ssn 078-05-1120")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Safe {
		t.Error("blockOnPII must mark PII input unsafe")
	}
	if len(result.Details.Findings) == 0 {
		t.Error("expected findings on blocked input")
	}
}

func TestCheckInputModeration(t *testing.T) {
	mod := &fakeModerator{flagged: true, categories: []string{"violence"}}
	p := NewPipeline(config.Safety{MaxInputLength: 1000, Moderation: true}, mod)

	result, err := p.CheckInput(context.Background(), "some input")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Safe {
		t.Error("flagged input must be unsafe")
	}
	if !result.Details.HarmfulContent {
		t.Error("expected HarmfulContent detail")
	}
	if len(result.Details.Categories) != 1 || result.Details.Categories[0] != "violence" {
		t.Errorf("unexpected categories: %v", result.Details.Categories)
	}
}

func TestCheckInputModerationDisabled(t *testing.T) {
	mod := &fakeModerator{flagged: true}
	p := NewPipeline(config.Safety{MaxInputLength: 1000}, mod)

	result, err := p.CheckInput(context.Background(), "some input")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Safe {
		t.Error("moderation off: input must pass")
	}
	if mod.called {
		t.Error("moderator must not run when moderation is off")
	}
}

func TestCheckInputModerationError(t *testing.T) {
	mod := &fakeModerator{err: errors.New("provider down")}
	p := NewPipeline(config.Safety{MaxInputLength: 1000, Moderation: true}, mod)

	if _, err := p.CheckInput(context.Background(), "some input"); err == nil {
		t.Fatal("expected moderation error to propagate")
	}
}

func TestCheckOutput(t *testing.T) {
	mod := &fakeModerator{flagged: true, categories: []string{"hate"}}
	p := NewPipeline(config.Safety{Moderation: true}, mod)

	result, err := p.CheckOutput(context.Background(), "model output")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Safe {
		t.Error("flagged output must be unsafe")
	}

	// PII in output is not checked, only moderation
	clean := NewPipeline(config.Safety{}, nil)
	result, err = clean.CheckOutput(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Safe || result.Processed != "jane@example.com" {
		t.Error("output check without moderation must pass text through")
	}
}
