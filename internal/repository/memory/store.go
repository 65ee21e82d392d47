// Package memory implements the repository ports in process memory. Inserts
// check uniqueness under the same lock that performs the write, matching the
// unique-index semantics of the postgres implementation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/repository"
)

type Store struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]domain.User
	temples map[uuid.UUID]domain.Temple
	saved   map[uuid.UUID]domain.SavedTemple
	chats   []domain.ChatRecord
}

func NewStore() *Store {
	return &Store{
		users:   make(map[uuid.UUID]domain.User),
		temples: make(map[uuid.UUID]domain.Temple),
		saved:   make(map[uuid.UUID]domain.SavedTemple),
	}
}

func NewRepositories(s *Store) *repository.Repositories {
	return &repository.Repositories{
		User:        &userRepository{s: s},
		Temple:      &templeRepository{s: s},
		SavedTemple: &savedTempleRepository{s: s},
		Chat:        &chatRepository{s: s},
	}
}

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email || u.ID == user.ID {
			return repository.ErrDuplicate
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type templeRepository struct {
	s *Store
}

func (r *templeRepository) CreateMany(ctx context.Context, temples []*domain.Temple) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range temples {
		if _, ok := r.s.temples[t.ID]; ok {
			return repository.ErrDuplicate
		}
	}
	for _, t := range temples {
		r.s.temples[t.ID] = *t
	}
	return nil
}

func (r *templeRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.temples)), nil
}

func (r *templeRepository) List(ctx context.Context, filter domain.TempleFilter, limit int) ([]*domain.Temple, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	deity := strings.ToLower(filter.Deity)
	out := make([]*domain.Temple, 0)
	for _, t := range r.s.temples {
		if filter.State != "" && t.State != filter.State {
			continue
		}
		if deity != "" && !strings.Contains(strings.ToLower(t.Deity), deity) {
			continue
		}
		t := t
		out = append(out, &t)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *templeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Temple, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.temples[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *templeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Temple, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Temple, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.s.temples[id]; ok {
			out = append(out, &t)
		}
	}
	return out, nil
}

type savedTempleRepository struct {
	s *Store
}

func (r *savedTempleRepository) Create(ctx context.Context, saved *domain.SavedTemple) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, st := range r.s.saved {
		if st.UserID == saved.UserID && st.TempleID == saved.TempleID {
			return repository.ErrDuplicate
		}
	}
	r.s.saved[saved.ID] = *saved
	return nil
}

func (r *savedTempleRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.SavedTemple, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.SavedTemple, 0)
	for _, st := range r.s.saved {
		if st.UserID == userID {
			st := st
			out = append(out, &st)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.Before(out[j].SavedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *savedTempleRepository) Delete(ctx context.Context, userID, templeID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, st := range r.s.saved {
		if st.UserID == userID && st.TempleID == templeID {
			delete(r.s.saved, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

type chatRepository struct {
	s *Store
}

func (r *chatRepository) Create(ctx context.Context, record *domain.ChatRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.chats = append(r.s.chats, *record)
	return nil
}

func (r *chatRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ChatRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.ChatRecord, 0)
	for i := len(r.s.chats) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if rec := r.s.chats[i]; rec.UserID == userID {
			out = append(out, &rec)
		}
	}
	return out, nil
}
