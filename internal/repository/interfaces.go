package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	// Create fails with ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TempleRepository interface {
	CreateMany(ctx context.Context, temples []*domain.Temple) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, filter domain.TempleFilter, limit int) ([]*domain.Temple, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Temple, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Temple, error)
}

type SavedTempleRepository interface {
	// Create fails with ErrDuplicate when the (user, temple) pair exists.
	Create(ctx context.Context, saved *domain.SavedTemple) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.SavedTemple, error)
	// Delete fails with ErrNotFound when no entry matched.
	Delete(ctx context.Context, userID, templeID uuid.UUID) error
}

type ChatRepository interface {
	Create(ctx context.Context, record *domain.ChatRecord) error
	// ListRecent returns the newest records first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ChatRecord, error)
}

type Repositories struct {
	User        UserRepository
	Temple      TempleRepository
	SavedTemple SavedTempleRepository
	Chat        ChatRepository
}
