package repository

import (
	"context"

	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	GetByPartialID(ctx context.Context, partialID string) (*domain.Conversation, error)
	List(ctx context.Context, limit int) ([]*domain.Conversation, error)
	GetMostRecent(ctx context.Context) (*domain.Conversation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetSummary(ctx context.Context, id uuid.UUID, summary string) error

	AddMessage(ctx context.Context, convID uuid.UUID, msg *domain.Message) error
	GetMessages(ctx context.Context, convID uuid.UUID) ([]domain.Message, error)
}
