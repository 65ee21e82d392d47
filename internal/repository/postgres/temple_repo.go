package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
	"gorm.io/gorm"
)

type templeRepository struct {
	db *gorm.DB
}

func NewTempleRepository(db *gorm.DB) *templeRepository {
	return &templeRepository{db: db}
}

func (r *templeRepository) CreateMany(ctx context.Context, temples []*domain.Temple) error {
	if len(temples) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(temples).Error)
}

func (r *templeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Temple{}).Count(&count).Error
	return count, translate(err)
}

func (r *templeRepository) List(ctx context.Context, filter domain.TempleFilter, limit int) ([]*domain.Temple, error) {
	query := r.db.WithContext(ctx).Model(&domain.Temple{})
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.Deity != "" {
		query = query.Where(`deity ILIKE ? ESCAPE '\'`, "%"+escapeLike(filter.Deity)+"%")
	}

	var temples []*domain.Temple
	if err := query.Order("created_at ASC, name ASC").Limit(limit).Find(&temples).Error; err != nil {
		return nil, translate(err)
	}
	return temples, nil
}

func (r *templeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Temple, error) {
	var temple domain.Temple
	if err := r.db.WithContext(ctx).First(&temple, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &temple, nil
}

func (r *templeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Temple, error) {
	var temples []*domain.Temple
	if len(ids) == 0 {
		return temples, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&temples).Error; err != nil {
		return nil, translate(err)
	}
	return temples, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
