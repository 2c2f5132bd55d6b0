package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dispatchbot/dispatch/internal/config"
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/dispatchbot/dispatch/internal/safety"
	"github.com/dispatchbot/dispatch/internal/tools"
	"github.com/google/uuid"
)

type stubRepo struct {
	repository.ConversationRepository
	getCalled bool
}

func (r *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	r.getCalled = true
	return nil, errors.New("stub repository")
}

type orderedExecutor struct{}

func (e *orderedExecutor) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	if name == "broken" {
		return "", fmt.Errorf("tool exploded")
	}
	return "result of " + name, nil
}

func TestSendMessageBlockedInput(t *testing.T) {
	repo := &stubRepo{}
	pipeline := safety.NewPipeline(config.Safety{MaxInputLength: 5}, nil)
	a := New(repo, nil, nil, config.ModelPreset{}, config.Agent{MaxIterations: 5}, pipeline)

	_, err := a.SendMessage(context.Background(), SendMessageOptions{
		ConversationID: uuid.New(),
		Content:        "this is far too long",
	})

	var blocked *InputBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected InputBlockedError, got %v", err)
	}
	if !blocked.Details.LengthExceeded {
		t.Error("expected length detail on the error")
	}
	if repo.getCalled {
		t.Error("blocked input must not reach the repository")
	}
}

func TestExecuteAllPreservesCallOrder(t *testing.T) {
	a := New(nil, &orderedExecutor{}, nil, config.ModelPreset{}, config.Agent{}, nil)

	calls := []domain.ToolCall{
		{ID: "call_1", Name: "alpha", Arguments: json.RawMessage(`{"n": 1}`)},
		{ID: "call_2", Name: "beta", Arguments: json.RawMessage(`{"n": 2}`)},
		{ID: "call_3", Name: "gamma", Arguments: json.RawMessage(`{"n": 3}`)},
	}

	combined := a.executeAll(context.Background(), calls)

	if !strings.HasPrefix(combined, "Tool call results:") {
		t.Errorf("missing results header: %q", combined)
	}

	// Results appear in call order regardless of completion order
	posAlpha := strings.Index(combined, "Name: alpha")
	posBeta := strings.Index(combined, "Name: beta")
	posGamma := strings.Index(combined, "Name: gamma")
	if posAlpha < 0 || posBeta < 0 || posGamma < 0 {
		t.Fatalf("missing call sections in %q", combined)
	}
	if !(posAlpha < posBeta && posBeta < posGamma) {
		t.Errorf("results out of order: %q", combined)
	}

	if !strings.Contains(combined, "ID: call_2") {
		t.Error("call IDs missing from results")
	}
	if !strings.Contains(combined, `Arguments: {"n": 1}`) {
		t.Error("raw arguments missing from results")
	}
	if !strings.Contains(combined, "result of beta") {
		t.Error("tool output missing from results")
	}
}

func TestExecuteAllReportsErrors(t *testing.T) {
	a := New(nil, &orderedExecutor{}, nil, config.ModelPreset{}, config.Agent{}, nil)

	calls := []domain.ToolCall{
		{ID: "call_1", Name: "broken", Arguments: json.RawMessage(`{}`)},
	}

	combined := a.executeAll(context.Background(), calls)
	if !strings.Contains(combined, "Error: tool exploded") {
		t.Errorf("executor error not reported: %q", combined)
	}
}

func TestBuildHistoryPrependsSystemMessage(t *testing.T) {
	a := New(nil, nil, nil,
		config.ModelPreset{SystemMessage: "be terse"},
		config.Agent{},
		nil,
	)

	history := a.buildHistory([]domain.Message{
		{Role: domain.RoleHuman, Content: "hello"},
	})

	if len(history) != 2 {
		t.Fatalf("got %d messages, want 2", len(history))
	}
	if history[0].Role != domain.RoleSystem || history[0].Content != "be terse" {
		t.Errorf("system message not prepended: %+v", history[0])
	}
}

func TestBuildHistoryAppliesTokenBudget(t *testing.T) {
	a := New(nil, nil, nil,
		config.ModelPreset{},
		config.Agent{HistoryTokenBudget: 20},
		nil,
	)

	history := a.buildHistory([]domain.Message{
		{Role: domain.RoleHuman, Content: strings.Repeat("old ", 100)},
		{Role: domain.RoleHuman, Content: "recent"},
	})

	if len(history) != 1 || history[0].Content != "recent" {
		t.Errorf("budget not applied: %+v", history)
	}
}

func TestFirstApprovalRequired(t *testing.T) {
	advertised := map[string]tools.ToolWithApproval{
		"safe_tool":    {Tool: domain.Tool{Name: "safe_tool"}},
		"guarded_tool": {Tool: domain.Tool{Name: "guarded_tool"}, RequireApproval: true},
	}
	a := New(nil, nil, advertised, config.ModelPreset{}, config.Agent{}, nil)

	calls := []domain.ToolCall{
		{ID: "call_1", Name: "safe_tool"},
		{ID: "call_2", Name: "guarded_tool"},
	}
	call, required := a.firstApprovalRequired(calls)
	if !required {
		t.Fatal("expected approval to be required")
	}
	if call.Name != "guarded_tool" {
		t.Errorf("wrong call flagged: %s", call.Name)
	}

	if _, required := a.firstApprovalRequired(calls[:1]); required {
		t.Error("safe tool must not require approval")
	}
}

func TestMaxIterationsFloor(t *testing.T) {
	a := New(nil, nil, nil, config.ModelPreset{}, config.Agent{}, nil)
	if got := a.maxIterations(); got != 1 {
		t.Errorf("unset cap must floor to 1, got %d", got)
	}

	a = New(nil, nil, nil, config.ModelPreset{}, config.Agent{MaxIterations: 7}, nil)
	if got := a.maxIterations(); got != 7 {
		t.Errorf("cap = %d, want 7", got)
	}
}
