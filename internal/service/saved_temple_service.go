package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository"
)

// SavedTempleService manages each user's saved-temple ledger. Every operation
// is scoped to the user passed in, so there is no path to another user's entries.
type SavedTempleService struct {
	savedRepo  repository.SavedTempleRepository
	templeRepo repository.TempleRepository
	log        logging.Logger
	now        func() time.Time
}

func NewSavedTempleService(savedRepo repository.SavedTempleRepository, templeRepo repository.TempleRepository, log logging.Logger) *SavedTempleService {
	return &SavedTempleService{
		savedRepo:  savedRepo,
		templeRepo: templeRepo,
		log:        log,
		now:        time.Now,
	}
}

func (s *SavedTempleService) Save(ctx context.Context, user *domain.User, templeID uuid.UUID) error {
	if _, err := s.templeRepo.GetByID(ctx, templeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTempleNotFound
		}
		return fmt.Errorf("find temple: %w", err)
	}

	entry := &domain.SavedTemple{
		ID:       uuid.New(),
		UserID:   user.ID,
		TempleID: templeID,
		SavedAt:  s.now().UTC(),
	}
	if err := s.savedRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.ErrTempleAlreadySaved
		}
		return fmt.Errorf("save temple: %w", err)
	}

	s.log.Info(ctx, "temple saved", "user_id", user.ID, "temple_id", templeID)
	return nil
}

func (s *SavedTempleService) List(ctx context.Context, user *domain.User) ([]*domain.Temple, error) {
	entries, err := s.savedRepo.ListByUserID(ctx, user.ID, domain.MaxTempleResults)
	if err != nil {
		return nil, fmt.Errorf("list saved temples: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.TempleID)
	}

	temples, err := s.templeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load saved temples: %w", err)
	}

	// Keep save order. Entries whose temple has vanished are skipped.
	byID := make(map[uuid.UUID]*domain.Temple, len(temples))
	for _, t := range temples {
		byID[t.ID] = t
	}
	out := make([]*domain.Temple, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *SavedTempleService) Unsave(ctx context.Context, user *domain.User, templeID uuid.UUID) error {
	if err := s.savedRepo.Delete(ctx, user.ID, templeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrSavedTempleNotFound
		}
		return fmt.Errorf("unsave temple: %w", err)
	}

	s.log.Info(ctx, "temple unsaved", "user_id", user.ID, "temple_id", templeID)
	return nil
}
