package sqlite

import (
	"context"
	"strings"

	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Create(ctx context.Context, conv *domain.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *conversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		First(&conv, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoConversationError{}
		}
		return nil, err
	}
	return &conv, nil
}

// likeEscaper neutralizes LIKE wildcards in user-supplied prefixes.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *conversationRepo) GetByPartialID(ctx context.Context, partialID string) (*domain.Conversation, error) {
	prefix := likeEscaper.Replace(strings.ToLower(partialID))

	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Where(`LOWER(CAST(id AS TEXT)) LIKE ? ESCAPE '\'`, prefix+"%").
		First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoConversationError{}
		}
		return nil, err
	}
	return r.GetByID(ctx, conv.ID)
}

func (r *conversationRepo) List(ctx context.Context, limit int) ([]*domain.Conversation, error) {
	var convs []*domain.Conversation
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *conversationRepo) GetMostRecent(ctx context.Context) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&conv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.NoConversationError{}
		}
		return nil, err
	}
	return r.GetByID(ctx, conv.ID)
}

func (r *conversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Conversation{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.NoConversationError{}
		}
		return nil
	})
}

func (r *conversationRepo) SetSummary(ctx context.Context, id uuid.UUID, summary string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("summary", summary).Error
}

func (r *conversationRepo) AddMessage(ctx context.Context, convID uuid.UUID, msg *domain.Message) error {
	msg.ConversationID = convID
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *conversationRepo) GetMessages(ctx context.Context, convID uuid.UUID) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
