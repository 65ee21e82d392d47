package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templequest/temple-api/internal/auth"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository"
	"github.com/templequest/temple-api/internal/repository/memory"
	"github.com/templequest/temple-api/internal/repository/postgres"
	"github.com/templequest/temple-api/internal/service"
	"github.com/templequest/temple-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newAuthService(t *testing.T, repos *repository.Repositories, clock *manualClock) *service.AuthService {
	t.Helper()

	var opts []auth.Option
	if clock != nil {
		opts = append(opts, auth.WithClock(clock.Now))
	}
	tokens, err := auth.NewTokenService("test-secret", "HS256", 7*24*time.Hour, opts...)
	require.NoError(t, err)

	return service.NewAuthService(repos.User, auth.NewPasswordHasher(bcrypt.MinCost), tokens, logging.Discard())
}

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := newAuthService(t, repos, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     service.RegisterInput
		setup     func()
		wantErr   error
		checkUser bool
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Username: "newuser",
				Email:    "new@example.com",
				Password: "password123",
			},
			checkUser: true,
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Username: "someone else",
				Email:    "existing@example.com",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("existing@example.com").
					Build(t, repos.User)
			},
			wantErr: domain.ErrEmailExists,
		},
		{
			name: "duplicate username is allowed",
			input: service.RegisterInput{
				Username: "twin",
				Email:    "twin2@example.com",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithUsername("twin").
					WithEmail("twin1@example.com").
					Build(t, repos.User)
			},
			checkUser: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			result, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.AccessToken)

			if tt.checkUser {
				stored, err := repos.User.GetByEmail(ctx, tt.input.Email)
				require.NoError(t, err)
				assert.Equal(t, result.User.ID, stored.ID)
				assert.Equal(t, tt.input.Username, stored.Username)
				assert.NotEqual(t, tt.input.Password, stored.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(tt.input.Password)))
			}
		})
	}
}

func TestAuthService_ConcurrentRegistrationSameEmail(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	authService := newAuthService(t, repos, nil)

	const attempts = 6
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = authService.Register(context.Background(), service.RegisterInput{
				Username: "racer",
				Email:    "race@example.com",
				Password: "pw",
			})
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrEmailExists)
	}
	assert.Equal(t, 1, ok)
}

func TestAuthService_Login(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	authService := newAuthService(t, repos, nil)
	ctx := context.Background()

	registered, err := authService.Register(ctx, service.RegisterInput{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "correct", email: "asha@example.com", password: "pw"},
		{name: "wrong password", email: "asha@example.com", password: "PW", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@example.com", password: "pw", wantErr: domain.ErrInvalidCredentials},
		{name: "empty password", email: "asha@example.com", password: "", wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, service.LoginInput{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.User.ID, result.User.ID)

			user, err := authService.ResolveIdentity(ctx, result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, registered.User.ID, user.ID)
		})
	}
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	clock := &manualClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	authService := newAuthService(t, repos, clock)
	ctx := context.Background()

	registered, err := authService.Register(ctx, service.RegisterInput{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		user, err := authService.ResolveIdentity(ctx, registered.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "asha", user.Username)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := authService.ResolveIdentity(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := authService.ResolveIdentity(ctx, "garbage")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("subject is not a user id", func(t *testing.T) {
		tokens, err := auth.NewTokenService("test-secret", "HS256", time.Hour, auth.WithClock(clock.Now))
		require.NoError(t, err)
		token, err := tokens.Issue("not-a-uuid")
		require.NoError(t, err)

		_, err = authService.ResolveIdentity(ctx, token)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("unknown user", func(t *testing.T) {
		tokens, err := auth.NewTokenService("test-secret", "HS256", time.Hour, auth.WithClock(clock.Now))
		require.NoError(t, err)
		token, err := tokens.Issue(uuid.New().String())
		require.NoError(t, err)

		_, err = authService.ResolveIdentity(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("expires after seven days", func(t *testing.T) {
		clock.Advance(7*24*time.Hour - time.Second)
		_, err := authService.ResolveIdentity(ctx, registered.AccessToken)
		require.NoError(t, err)

		clock.Advance(time.Second)
		_, err = authService.ResolveIdentity(ctx, registered.AccessToken)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})
}
