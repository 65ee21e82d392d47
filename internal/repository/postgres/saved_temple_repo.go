package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/repository"
	"gorm.io/gorm"
)

type savedTempleRepository struct {
	db *gorm.DB
}

func NewSavedTempleRepository(db *gorm.DB) *savedTempleRepository {
	return &savedTempleRepository{db: db}
}

func (r *savedTempleRepository) Create(ctx context.Context, saved *domain.SavedTemple) error {
	return translate(r.db.WithContext(ctx).Create(saved).Error)
}

func (r *savedTempleRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.SavedTemple, error) {
	var saved []*domain.SavedTemple
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at ASC").
		Limit(limit).
		Find(&saved).Error
	if err != nil {
		return nil, translate(err)
	}
	return saved, nil
}

func (r *savedTempleRepository) Delete(ctx context.Context, userID, templeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND temple_id = ?", userID, templeID).
		Delete(&domain.SavedTemple{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
