package sqlite

import (
	"github.com/dispatchbot/dispatch/internal/domain"
	"github.com/dispatchbot/dispatch/internal/repository"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens (or creates) the SQLite database at dbPath, runs
// migrations, and returns a conversation repository backed by it.
func Initialize(dbPath string) (repository.ConversationRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.AutoMigrate(&domain.Conversation{}, &domain.Message{}); err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	return NewConversationRepository(db), nil
}
