package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/repository"
	"github.com/templequest/temple-api/internal/repository/memory"
)

func TestUserRepository_UniqueEmail(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	ctx := context.Background()

	first := &domain.User{ID: uuid.New(), Username: "a", Email: "a@x.com", CreatedAt: time.Now()}
	require.NoError(t, repos.User.Create(ctx, first))

	dup := &domain.User{ID: uuid.New(), Username: "b", Email: "a@x.com", CreatedAt: time.Now()}
	assert.ErrorIs(t, repos.User.Create(ctx, dup), repository.ErrDuplicate)

	// Lookups are case-sensitive, like the postgres unique index.
	other := &domain.User{ID: uuid.New(), Username: "c", Email: "A@x.com", CreatedAt: time.Now()}
	assert.NoError(t, repos.User.Create(ctx, other))

	got, err := repos.User.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repos.User.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSavedTempleRepository_ConcurrentCreate(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	ctx := context.Background()
	userID, templeID := uuid.New(), uuid.New()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repos.SavedTemple.Create(ctx, &domain.SavedTemple{
				ID: uuid.New(), UserID: userID, TempleID: templeID, SavedAt: time.Now(),
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	saved, err := repos.SavedTemple.ListByUserID(ctx, userID, 10)
	require.NoError(t, err)
	assert.Len(t, saved, 1)
}

func TestSavedTempleRepository_Delete(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	ctx := context.Background()
	userID, otherID, templeID := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, repos.SavedTemple.Create(ctx, &domain.SavedTemple{
		ID: uuid.New(), UserID: userID, TempleID: templeID, SavedAt: time.Now(),
	}))

	assert.ErrorIs(t, repos.SavedTemple.Delete(ctx, otherID, templeID), repository.ErrNotFound)
	assert.NoError(t, repos.SavedTemple.Delete(ctx, userID, templeID))
	assert.ErrorIs(t, repos.SavedTemple.Delete(ctx, userID, templeID), repository.ErrNotFound)
}

func TestTempleRepository_ListFilters(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	ctx := context.Background()
	base := time.Now()

	temples := []*domain.Temple{
		{ID: uuid.New(), Name: "Brihadeeswarar", State: "Tamil Nadu", Deity: "Lord Shiva", CreatedAt: base},
		{ID: uuid.New(), Name: "Kedarnath", State: "Uttarakhand", Deity: "Lord Shiva", CreatedAt: base.Add(time.Second)},
		{ID: uuid.New(), Name: "Meenakshi", State: "Tamil Nadu", Deity: "Goddess Meenakshi", CreatedAt: base.Add(2 * time.Second)},
	}
	require.NoError(t, repos.Temple.CreateMany(ctx, temples))

	tests := []struct {
		name   string
		filter domain.TempleFilter
		limit  int
		want   []string
	}{
		{name: "no filter", limit: 10, want: []string{"Brihadeeswarar", "Kedarnath", "Meenakshi"}},
		{name: "state", filter: domain.TempleFilter{State: "Tamil Nadu"}, limit: 10, want: []string{"Brihadeeswarar", "Meenakshi"}},
		{name: "state is exact", filter: domain.TempleFilter{State: "tamil nadu"}, limit: 10, want: []string{}},
		{name: "deity substring", filter: domain.TempleFilter{Deity: "shiva"}, limit: 10, want: []string{"Brihadeeswarar", "Kedarnath"}},
		{name: "both", filter: domain.TempleFilter{State: "Tamil Nadu", Deity: "SHIVA"}, limit: 10, want: []string{"Brihadeeswarar"}},
		{name: "limit", limit: 2, want: []string{"Brihadeeswarar", "Kedarnath"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.Temple.List(ctx, tt.filter, tt.limit)
			require.NoError(t, err)

			names := make([]string, 0, len(got))
			for _, temple := range got {
				names = append(names, temple.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestChatRepository_ListRecent(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	ctx := context.Background()
	userID := uuid.New()
	base := time.Now()

	for i, msg := range []string{"one", "two", "three"} {
		require.NoError(t, repos.Chat.Create(ctx, &domain.ChatRecord{
			ID: uuid.New(), UserID: userID, Message: msg, Response: "r", Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, repos.Chat.Create(ctx, &domain.ChatRecord{
		ID: uuid.New(), UserID: uuid.New(), Message: "someone else", Timestamp: base,
	}))

	got, err := repos.Chat.ListRecent(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "three", got[0].Message)
	assert.Equal(t, "two", got[1].Message)
}
