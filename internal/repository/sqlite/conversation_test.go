package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/google/uuid"
)

func newTestRepo(t *testing.T) repository.ConversationRepository {
	t.Helper()
	repo, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize repository: %v", err)
	}
	return repo
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	conv := &domain.Conversation{}
	if err := repo.Create(ctx, conv); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if conv.ID == uuid.Nil {
		t.Fatal("create must assign an ID")
	}

	got, err := repo.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID != conv.ID {
		t.Errorf("got ID %s, want %s", got.ID, conv.ID)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !domain.IsNoConversationError(err) {
		t.Fatalf("expected NoConversationError, got %v", err)
	}
}

func TestMessagesRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	conv := &domain.Conversation{}
	if err := repo.Create(ctx, conv); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	msgs := []*domain.Message{
		{Role: domain.RoleHuman, Content: "what's the weather?"},
		{Role: domain.RoleAssistant, Content: "", ToolCalls: `[{"id":"call_1","name":"get_weather","arguments":{"location":"Boston"}}]`},
		{Role: domain.RoleTool, Content: "Tool call results:"},
		{Role: domain.RoleAssistant, Content: "It is sunny.", ModelName: "gpt-4o", Provider: "openai"},
	}
	for _, m := range msgs {
		if err := repo.AddMessage(ctx, conv.ID, m); err != nil {
			t.Fatalf("add message failed: %v", err)
		}
	}

	got, err := repo.GetMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get messages failed: %v", err)
	}
	if len(got) != len(msgs) {
		t.Fatalf("got %d messages, want %d", len(got), len(msgs))
	}
	for i, m := range got {
		if m.Role != msgs[i].Role {
			t.Errorf("message %d role = %s, want %s", i, m.Role, msgs[i].Role)
		}
	}
	if got[1].ToolCalls == "" {
		t.Error("tool calls not persisted")
	}
	if got[3].ModelName != "gpt-4o" || got[3].Provider != "openai" {
		t.Error("model metadata not persisted")
	}

	// GetByID preloads the same messages in order
	loaded, err := repo.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(loaded.Messages) != len(msgs) {
		t.Errorf("preloaded %d messages, want %d", len(loaded.Messages), len(msgs))
	}
}

func TestGetByPartialID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	conv := &domain.Conversation{}
	if err := repo.Create(ctx, conv); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	prefix := strings.ToUpper(conv.ID.String()[:8])
	got, err := repo.GetByPartialID(ctx, prefix)
	if err != nil {
		t.Fatalf("partial lookup failed: %v", err)
	}
	if got.ID != conv.ID {
		t.Errorf("got %s, want %s", got.ID, conv.ID)
	}

	if _, err := repo.GetByPartialID(ctx, "zzzzzzzz"); !domain.IsNoConversationError(err) {
		t.Fatalf("expected NoConversationError, got %v", err)
	}
}

func TestGetByPartialIDEscapesWildcards(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	conv := &domain.Conversation{}
	if err := repo.Create(ctx, conv); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// LIKE wildcards in the prefix must match literally, not everything
	for _, prefix := range []string{"%", "_", "%" + conv.ID.String()[:4]} {
		if _, err := repo.GetByPartialID(ctx, prefix); !domain.IsNoConversationError(err) {
			t.Errorf("prefix %q: expected NoConversationError, got %v", prefix, err)
		}
	}
}

func TestListAndMostRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var last *domain.Conversation
	for i := 0; i < 3; i++ {
		conv := &domain.Conversation{}
		if err := repo.Create(ctx, conv); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		last = conv
		time.Sleep(time.Millisecond) // distinct created_at timestamps
	}

	all, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("listed %d conversations, want 3", len(all))
	}

	limited, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("listed %d conversations, want 2", len(limited))
	}

	recent, err := repo.GetMostRecent(ctx)
	if err != nil {
		t.Fatalf("most recent failed: %v", err)
	}
	if recent.ID != last.ID {
		t.Errorf("most recent = %s, want %s", recent.ID, last.ID)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	conv := &domain.Conversation{}
	if err := repo.Create(ctx, conv); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.AddMessage(ctx, conv.ID, &domain.Message{Role: domain.RoleHuman, Content: "hi"}); err != nil {
		t.Fatalf("add message failed: %v", err)
	}

	if err := repo.Delete(ctx, conv.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, conv.ID); !domain.IsNoConversationError(err) {
		t.Fatalf("expected NoConversationError after delete, got %v", err)
	}

	if err := repo.Delete(ctx, uuid.New()); !domain.IsNoConversationError(err) {
		t.Fatalf("expected NoConversationError for missing conversation, got %v", err)
	}
}

func TestSetSummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	conv := &domain.Conversation{}
	if err := repo.Create(ctx, conv); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.SetSummary(ctx, conv.ID, "weather chat"); err != nil {
		t.Fatalf("set summary failed: %v", err)
	}

	got, err := repo.GetByID(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Summary != "weather chat" {
		t.Errorf("summary = %q", got.Summary)
	}
}
