package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/templequest/temple-api/internal/api/handlers"
	"github.com/templequest/temple-api/internal/api/middleware"
	"github.com/templequest/temple-api/internal/config"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/service"
	"github.com/templequest/temple-api/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, log)
	templeHandler := handlers.NewTempleHandler(services.Temple, log)
	savedHandler := handlers.NewSavedTempleHandler(services.SavedTemple, log)
	chatHandler := handlers.NewChatHandler(services.Chat, hub, log)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, services.Chat, cfg.CORSOrigins, log)
	requireUser := middleware.Auth(services.Auth, log)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(requireUser).Get("/me", authHandler.Me)
		})

		r.Route("/temples", func(r chi.Router) {
			r.Get("/", templeHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(requireUser)
				r.Post("/saved", savedHandler.Save)
				r.Get("/saved/list", savedHandler.List)
				r.Delete("/saved/{templeId}", savedHandler.Unsave)
			})

			r.Get("/{id}", templeHandler.Get)
		})

		r.Route("/chat/mitra", func(r chi.Router) {
			r.With(requireUser).Post("/", chatHandler.Converse)
			r.With(requireUser).Get("/history", chatHandler.History)
			r.Get("/ws", wsHandler.Handle)
		})
	})

	return r
}
