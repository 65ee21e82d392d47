package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository"
)

type TempleService struct {
	templeRepo repository.TempleRepository
	log        logging.Logger
}

func NewTempleService(templeRepo repository.TempleRepository, log logging.Logger) *TempleService {
	return &TempleService{templeRepo: templeRepo, log: log}
}

func (s *TempleService) ListTemples(ctx context.Context, filter domain.TempleFilter) ([]*domain.Temple, error) {
	return s.templeRepo.List(ctx, filter, domain.MaxTempleResults)
}

func (s *TempleService) GetTemple(ctx context.Context, id uuid.UUID) (*domain.Temple, error) {
	temple, err := s.templeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrTempleNotFound
		}
		return nil, err
	}
	return temple, nil
}

// SeedIfEmpty inserts the sample catalog when no temples exist. It reports
// how many temples were inserted.
func (s *TempleService) SeedIfEmpty(ctx context.Context) (int, error) {
	count, err := s.templeRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count temples: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	temples, err := SampleTemples()
	if err != nil {
		return 0, err
	}
	if err := s.templeRepo.CreateMany(ctx, temples); err != nil {
		return 0, fmt.Errorf("seed temples: %w", err)
	}

	s.log.Info(ctx, "sample temples initialized", "count", len(temples))
	return len(temples), nil
}
