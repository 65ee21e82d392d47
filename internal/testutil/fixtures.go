package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with unique default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: "pilgrim_" + suffix,
		email:    fmt.Sprintf("pilgrim_%s@example.com", suffix),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build stores the user directly and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, repo repository.UserRepository) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"user"`
}

// BuildAndAuthenticate registers the user through the API and returns the auth response
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) *AuthResponse {
	t.Helper()

	resp := DoJSON(t, http.MethodPost, ts.APIURL("/auth/register"), map[string]string{
		"username": b.username,
		"email":    b.email,
		"password": b.password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return &authResp
}

// TempleBuilder creates catalog entries with a builder pattern
type TempleBuilder struct {
	name      string
	location  string
	state     string
	deity     string
	festivals []string
	createdAt time.Time
}

func NewTempleBuilder() *TempleBuilder {
	return &TempleBuilder{
		name:      "Temple " + uuid.New().String()[:8],
		location:  "Somewhere",
		state:     "Tamil Nadu",
		deity:     "Lord Shiva",
		festivals: []string{"Maha Shivaratri"},
		createdAt: time.Now().UTC(),
	}
}

func (b *TempleBuilder) WithName(name string) *TempleBuilder {
	b.name = name
	return b
}

func (b *TempleBuilder) WithState(state string) *TempleBuilder {
	b.state = state
	return b
}

func (b *TempleBuilder) WithDeity(deity string) *TempleBuilder {
	b.deity = deity
	return b
}

func (b *TempleBuilder) WithFestivals(festivals ...string) *TempleBuilder {
	b.festivals = festivals
	return b
}

func (b *TempleBuilder) WithCreatedAt(ts time.Time) *TempleBuilder {
	b.createdAt = ts
	return b
}

// New returns the temple without storing it
func (b *TempleBuilder) New(t *testing.T) *domain.Temple {
	t.Helper()

	temple := &domain.Temple{
		ID:          uuid.New(),
		Name:        b.name,
		Location:    b.location,
		State:       b.state,
		Deity:       b.deity,
		Description: "A temple used in tests.",
		History:     "Built for tests.",
		Timings:     "6:00 AM - 9:00 PM",
		DressCode:   "Traditional",
		ImageURL:    "https://example.com/temple.jpg",
		CreatedAt:   b.createdAt,
	}
	if err := temple.SetFestivals(b.festivals); err != nil {
		t.Fatalf("failed to encode festivals: %v", err)
	}
	return temple
}

// Build stores the temple and returns it
func (b *TempleBuilder) Build(t *testing.T, repo repository.TempleRepository) *domain.Temple {
	t.Helper()

	temple := b.New(t)
	if err := repo.CreateMany(context.Background(), []*domain.Temple{temple}); err != nil {
		t.Fatalf("failed to create temple: %v", err)
	}
	return temple
}

// SeedTemples stores count temples with strictly increasing creation times
func SeedTemples(t *testing.T, repo repository.TempleRepository, count int) []*domain.Temple {
	t.Helper()

	base := time.Now().UTC().Add(-time.Hour)
	temples := make([]*domain.Temple, count)
	for i := range temples {
		temples[i] = NewTempleBuilder().
			WithName(fmt.Sprintf("Temple %02d", i)).
			WithCreatedAt(base.Add(time.Duration(i) * time.Second)).
			New(t)
	}
	if err := repo.CreateMany(context.Background(), temples); err != nil {
		t.Fatalf("failed to seed temples: %v", err)
	}
	return temples
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	bodyReader := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// DoJSON sends a JSON request and returns the response
func DoJSON(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(CreateAuthenticatedRequest(t, method, url, body, token))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	return resp
}
