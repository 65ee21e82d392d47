package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/templequest/temple-api/internal/api"
	"github.com/templequest/temple-api/internal/auth"
	"github.com/templequest/temple-api/internal/cache"
	"github.com/templequest/temple-api/internal/config"
	"github.com/templequest/temple-api/internal/llm"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository"
	"github.com/templequest/temple-api/internal/repository/memory"
	"github.com/templequest/temple-api/internal/repository/postgres"
	"github.com/templequest/temple-api/internal/service"
	"github.com/templequest/temple-api/internal/telemetry"
	"github.com/templequest/temple-api/internal/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "temple-api"

func main() {
	log := logging.New()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load config", "err", err)
		os.Exit(1)
	}

	shutdownTracing := telemetry.Setup(ctx, serviceName, log)

	repos, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open storage", "storage", cfg.Storage, "err", err)
		os.Exit(1)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL())
	if err != nil {
		log.Error(ctx, "failed to configure tokens", "err", err)
		os.Exit(1)
	}

	services := service.NewServices(service.Deps{
		Repos:     repos,
		Hasher:    auth.NewPasswordHasher(0),
		Tokens:    tokens,
		Completer: llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout),
		Log:       log,
	})

	if n, err := services.Temple.SeedIfEmpty(ctx); err != nil {
		log.Error(ctx, "failed to seed temple catalog", "err", err)
	} else if n > 0 {
		log.Info(ctx, "seeded temple catalog", "count", n)
	}

	hub := websocket.NewHub()
	go hub.Run()

	router := api.NewRouter(services, hub, cfg, log)

	// Chat replies may take up to the upstream timeout.
	writeTimeout := cfg.LLMTimeout + 15*time.Second

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server forced to shutdown", "err", err)
	}
	hub.Stop()
	closeStorage()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn(ctx, "tracer shutdown failed", "err", err)
	}

	log.Info(ctx, "server stopped")
}

// openStorage builds the repositories for the configured backend and wraps the
// temple catalog in a redis cache when REDIS_ADDR is set.
func openStorage(ctx context.Context, cfg *config.Config, log logging.Logger) (*repository.Repositories, func(), error) {
	var (
		repos   *repository.Repositories
		closers []func() error
	)

	switch cfg.Storage {
	case config.StorageMemory:
		repos = memory.NewRepositories(memory.NewStore())
	default:
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repos = postgres.NewRepositories(db)
		closers = append(closers, func() error { return postgres.Close(db) })
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn(ctx, "catalog cache disabled", "addr", cfg.RedisAddr, "err", err)
		} else {
			repos.Temple = cache.NewTempleRepository(repos.Temple, rdb, cfg.CatalogTTL, log)
			closers = append(closers, rdb.Close)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn(ctx, "close storage failed", "err", err)
			}
		}
	}
	return repos, closeAll, nil
}
