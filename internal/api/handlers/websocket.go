package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	ws "github.com/gorilla/websocket"
	"github.com/templequest/temple-api/internal/api/middleware"
	"github.com/templequest/temple-api/internal/api/respond"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/service"
	"github.com/templequest/temple-api/internal/websocket"
)

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
	chatService *service.ChatService
	upgrader    ws.Upgrader
	log         logging.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService, chatService *service.ChatService, origins []string, log logging.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		chatService: chatService,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
		log: log,
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(origins, "*") {
			return true
		}
		return slices.Contains(origins, origin)
	}
}

// Handle upgrades an authenticated request to a chat connection. The token
// comes from the query string since browsers cannot set upgrade headers.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		var ok bool
		if token, ok = middleware.BearerToken(r.Header.Get("Authorization")); !ok {
			respond.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
	}

	user, err := h.authService.ResolveIdentity(r.Context(), token)
	if err != nil {
		status, detail := middleware.AuthFailure(err)
		if status == http.StatusInternalServerError {
			h.log.Error(r.Context(), "identity resolution failed", "err", err)
		}
		respond.Error(w, status, detail)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", "err", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, user.ID, h.chatHandler(user), h.log)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(context.WithoutCancel(r.Context()))
}

func (h *WebSocketHandler) chatHandler(user *domain.User) websocket.MessageHandler {
	return func(ctx context.Context, c *websocket.Client, data []byte) {
		var frame websocket.ChatFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.Send(websocket.ErrorFrame{Error: "Invalid message"})
			return
		}
		if msg := validateChatMessage(frame.Message); msg != "" {
			c.Send(websocket.ErrorFrame{Error: msg})
			return
		}

		record, err := h.chatService.Converse(ctx, user, frame.Message)
		if err != nil {
			_, detail := chatFailure(err)
			h.log.Error(ctx, "websocket chat failed", "user_id", user.ID, "err", err)
			c.Send(websocket.ErrorFrame{Error: detail})
			return
		}

		h.publish(ctx, record)
	}
}

func (h *WebSocketHandler) publish(ctx context.Context, record *domain.ChatRecord) {
	err := h.hub.Publish(record.UserID, websocket.ReplyFrame{
		Message:   record.Message,
		Response:  record.Response,
		Timestamp: record.Timestamp,
	})
	if err != nil {
		h.log.Warn(ctx, "publish chat reply failed", "user_id", record.UserID, "err", err)
	}
}
