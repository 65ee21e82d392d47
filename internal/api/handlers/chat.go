package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/templequest/temple-api/internal/api/middleware"
	"github.com/templequest/temple-api/internal/api/respond"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/service"
	"github.com/templequest/temple-api/internal/websocket"
)

const maxChatMessageLength = 4000

type ChatHandler struct {
	chatService *service.ChatService
	hub         *websocket.Hub
	log         logging.Logger
}

// NewChatHandler mirrors REST exchanges to the user's open chat sockets when hub is non-nil.
func NewChatHandler(chatService *service.ChatService, hub *websocket.Hub, log logging.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, hub: hub, log: log}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatRecordResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *ChatHandler) Converse(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateChatMessage(req.Message); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	record, err := h.chatService.Converse(r.Context(), user, req.Message)
	if err != nil {
		status, detail := chatFailure(err)
		if status == http.StatusInternalServerError {
			h.log.Error(r.Context(), "chat failed", "user_id", user.ID, "err", err)
		}
		respond.Error(w, status, detail)
		return
	}

	if h.hub != nil {
		err := h.hub.Publish(user.ID, websocket.ReplyFrame{
			Message:   record.Message,
			Response:  record.Response,
			Timestamp: record.Timestamp,
		})
		if err != nil {
			h.log.Warn(r.Context(), "publish chat reply failed", "user_id", user.ID, "err", err)
		}
	}

	respond.JSON(w, http.StatusOK, ChatResponse{Response: record.Response, Timestamp: record.Timestamp})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	records, err := h.chatService.History(r.Context(), user)
	if err != nil {
		h.log.Error(r.Context(), "chat history failed", "user_id", user.ID, "err", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]ChatRecordResponse, len(records))
	for i, rec := range records {
		resp[i] = ChatRecordResponse{
			ID:        rec.ID.String(),
			Message:   rec.Message,
			Response:  rec.Response,
			Timestamp: rec.Timestamp,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func validateChatMessage(message string) string {
	switch {
	case strings.TrimSpace(message) == "":
		return "Message is required"
	case len(message) > maxChatMessageLength:
		return "Message is too long"
	}
	return ""
}

func chatFailure(err error) (int, string) {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusInternalServerError, "Chat error: the assistant is unavailable, please try again"
	}
	return http.StatusInternalServerError, "Internal server error"
}
