package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/llm"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository"
)

const (
	MitraSystemPrompt = "You are Mitra, a knowledgeable and friendly AI assistant for TempleQuest, an Indian temple discovery platform. " +
		"You help users learn about Hindu temples, their history, significance, deities, festivals, visiting guidelines, and spiritual practices. " +
		"Provide accurate, respectful, and culturally sensitive information. Keep responses concise and helpful."

	// contextTurns is how many earlier exchanges accompany each new message.
	contextTurns = 10

	MaxHistoryResults = 100
)

type ChatService struct {
	completer llm.Completer
	chatRepo  repository.ChatRepository
	log       logging.Logger
	now       func() time.Time
}

func NewChatService(completer llm.Completer, chatRepo repository.ChatRepository, log logging.Logger) *ChatService {
	return &ChatService{
		completer: completer,
		chatRepo:  chatRepo,
		log:       log,
		now:       time.Now,
	}
}

// SessionID scopes provider-side conversation state to one user.
func SessionID(userID uuid.UUID) string {
	return "mitra_" + userID.String()
}

// Converse sends message to the upstream provider and records the exchange.
// Provider failures are returned as *domain.UpstreamError. There is no retry.
func (s *ChatService) Converse(ctx context.Context, user *domain.User, message string) (*domain.ChatRecord, error) {
	history, err := s.chatRepo.ListRecent(ctx, user.ID, contextTurns)
	if err != nil {
		// Earlier turns only add context; answer without them.
		s.log.Warn(ctx, "chat history unavailable", "user_id", user.ID, "err", err)
		history = nil
	}

	response, err := s.completer.Complete(ctx, llm.Request{
		SessionID:    SessionID(user.ID),
		SystemPrompt: MitraSystemPrompt,
		History:      toMessages(history),
		Message:      message,
	})
	if err != nil {
		s.log.Error(ctx, "chat provider failed", "user_id", user.ID, "err", err)
		return nil, &domain.UpstreamError{Err: err}
	}

	record := &domain.ChatRecord{
		ID:        uuid.New(),
		UserID:    user.ID,
		Message:   message,
		Response:  response,
		Timestamp: s.now().UTC(),
	}
	if err := s.chatRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store chat record: %w", err)
	}

	return record, nil
}

// History returns the user's exchanges, newest first.
func (s *ChatService) History(ctx context.Context, user *domain.User) ([]*domain.ChatRecord, error) {
	return s.chatRepo.ListRecent(ctx, user.ID, MaxHistoryResults)
}

// toMessages turns newest-first records into oldest-first prompt turns.
func toMessages(records []*domain.ChatRecord) []llm.Message {
	messages := make([]llm.Message, 0, len(records)*2)
	for i := len(records) - 1; i >= 0; i-- {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: records[i].Message},
			llm.Message{Role: llm.RoleAssistant, Content: records[i].Response},
		)
	}
	return messages
}
