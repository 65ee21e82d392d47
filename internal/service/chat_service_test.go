package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templequest/temple-api/internal/domain"
	"github.com/templequest/temple-api/internal/llm"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository/memory"
	"github.com/templequest/temple-api/internal/service"
	"github.com/templequest/temple-api/internal/testutil"
)

func TestSessionID(t *testing.T) {
	id := uuid.MustParse("5f1c7f7e-8d0a-4f51-9d2e-2b8f7a7c1e11")
	assert.Equal(t, "mitra_5f1c7f7e-8d0a-4f51-9d2e-2b8f7a7c1e11", service.SessionID(id))
}

func TestChatService_Converse(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	completer := &testutil.FakeCompleter{}
	chatService := service.NewChatService(completer, repos.Chat, logging.Discard())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, repos.User)
	completer.SetReply("Visit early in the morning.")

	record, err := chatService.Converse(ctx, user, "When should I visit Tirupati?")
	require.NoError(t, err)
	assert.Equal(t, user.ID, record.UserID)
	assert.Equal(t, "When should I visit Tirupati?", record.Message)
	assert.Equal(t, "Visit early in the morning.", record.Response)
	assert.False(t, record.Timestamp.IsZero())

	calls := completer.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, service.SessionID(user.ID), calls[0].SessionID)
	assert.Equal(t, service.MitraSystemPrompt, calls[0].SystemPrompt)

	history, err := chatService.History(ctx, user)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.ID, history[0].ID)
}

func TestChatService_ContextIsBoundedToRecentTurns(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	completer := &testutil.FakeCompleter{}
	chatService := service.NewChatService(completer, repos.Chat, logging.Discard())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, repos.User)
	for i := 0; i < 12; i++ {
		_, err := chatService.Converse(ctx, user, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	_, err := chatService.Converse(ctx, user, "last")
	require.NoError(t, err)

	calls := completer.Calls()
	last := calls[len(calls)-1]
	require.Len(t, last.History, 20)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "question 2"}, last.History[0])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "Namaste! You asked: question 11"}, last.History[19])
	assert.Equal(t, "last", last.Message)
}

func TestChatService_UpstreamFailure(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	completer := &testutil.FakeCompleter{}
	chatService := service.NewChatService(completer, repos.Chat, logging.Discard())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, repos.User)
	cause := errors.New("rate limited")
	completer.Fail(cause)

	record, err := chatService.Converse(ctx, user, "hello")
	assert.Nil(t, record)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.ErrorIs(t, err, cause)

	history, err := chatService.History(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatService_HistoryIsPerUser(t *testing.T) {
	repos := memory.NewRepositories(memory.NewStore())
	chatService := service.NewChatService(&testutil.FakeCompleter{}, repos.Chat, logging.Discard())
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().Build(t, repos.User)
	bob, _ := testutil.NewUserBuilder().Build(t, repos.User)

	_, err := chatService.Converse(ctx, alice, "a1")
	require.NoError(t, err)
	_, err = chatService.Converse(ctx, bob, "b1")
	require.NoError(t, err)
	_, err = chatService.Converse(ctx, alice, "a2")
	require.NoError(t, err)

	history, err := chatService.History(ctx, alice)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "a2", history[0].Message)
	assert.Equal(t, "a1", history[1].Message)
}
