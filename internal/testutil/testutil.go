package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/templequest/temple-api/internal/api"
	"github.com/templequest/temple-api/internal/auth"
	"github.com/templequest/temple-api/internal/config"
	"github.com/templequest/temple-api/internal/llm"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository"
	"github.com/templequest/temple-api/internal/repository/memory"
	repoPostgres "github.com/templequest/temple-api/internal/repository/postgres"
	"github.com/templequest/temple-api/internal/service"
	"github.com/templequest/temple-api/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB starts a PostgreSQL container and migrates the schema. The test
// is skipped in -short mode or when no container runtime is available.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_templequest"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(testDB.Cleanup)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := repoPostgres.Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(repoPostgres.Models...); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB.DB = db
	testDB.DSN = dsn
	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.DB != nil {
		repoPostgres.Close(tdb.DB)
	}
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"chat_history",
		"saved_temples",
		"temples",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		CORSOrigins:        []string{"*"},
		Storage:            config.StorageMemory,
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTAlgorithm:       "HS256",
		JWTExpirationHours: 1,
		LLMModel:           "test-model",
		LLMTimeout:         5 * time.Second,
	}
}

// FakeCompleter records requests and answers with a canned reply. By default
// it echoes the message back.
type FakeCompleter struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []llm.Request
}

func (f *FakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "Namaste! You asked: " + req.Message, nil
}

func (f *FakeCompleter) SetReply(reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = reply
}

// Fail makes subsequent calls return err. A nil err restores replies.
func (f *FakeCompleter) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Calls returns a snapshot of the recorded requests.
func (f *FakeCompleter) Calls() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}

// NewServices wires services over repos with a fast hasher and the given completer.
func NewServices(t *testing.T, repos *repository.Repositories, completer llm.Completer) *service.Services {
	t.Helper()

	cfg := TestConfig()
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL())
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	return service.NewServices(service.Deps{
		Repos:     repos,
		Hasher:    auth.NewPasswordHasher(bcrypt.MinCost),
		Tokens:    tokens,
		Completer: completer,
		Log:       logging.Discard(),
	})
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server    *httptest.Server
	Repos     *repository.Repositories
	Services  *service.Services
	Hub       *websocket.Hub
	Config    *config.Config
	Completer *FakeCompleter
}

// NewTestServer creates a test server backed by the in-memory store.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	return newTestServer(t, memory.NewRepositories(memory.NewStore()))
}

// NewTestServerWithDB creates a test server backed by a PostgreSQL container.
func NewTestServerWithDB(t *testing.T) *TestServer {
	t.Helper()
	testDB := NewTestDB(t)
	return newTestServer(t, repoPostgres.NewRepositories(testDB.DB))
}

func newTestServer(t *testing.T, repos *repository.Repositories) *TestServer {
	cfg := TestConfig()
	completer := &FakeCompleter{}
	services := NewServices(t, repos, completer)

	hub := websocket.NewHub()
	go hub.Run()

	router := api.NewRouter(services, hub, cfg, logging.Discard())
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return &TestServer{
		Server:    server,
		Repos:     repos,
		Services:  services,
		Hub:       hub,
		Config:    cfg,
		Completer: completer,
	}
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}

// WebSocketURL returns the chat WebSocket URL with token
func (ts *TestServer) WebSocketURL(token string) string {
	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http")
	return fmt.Sprintf("%s/api/chat/mitra/ws?token=%s", wsURL, token)
}
