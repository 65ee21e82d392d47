package postgres

import (
	"errors"
	"fmt"

	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the service.
var Models = []interface{}{
	&domain.User{},
	&domain.Temple{},
	&domain.SavedTemple{},
	&domain.ChatRecord{},
}

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := Open(databaseURL, logger.Warn)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return db, nil
}

// Open connects without migrating. TranslateError makes unique-index
// violations surface as gorm.ErrDuplicatedKey.
func Open(databaseURL string, level logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:        NewUserRepository(db),
		Temple:      NewTempleRepository(db),
		SavedTemple: NewSavedTempleRepository(db),
		Chat:        NewChatRepository(db),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	default:
		return err
	}
}
