package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
	"gorm.io/gorm"
)

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *chatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, record *domain.ChatRecord) error {
	return translate(r.db.WithContext(ctx).Create(record).Error)
}

func (r *chatRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ChatRecord, error) {
	var records []*domain.ChatRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(`"timestamp" DESC`).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	return records, nil
}
