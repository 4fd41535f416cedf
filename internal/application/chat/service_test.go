package chat_test

import (
	"context"
	"testing"

	appchat "github.com/facturo/backend/internal/application/chat"
	"github.com/facturo/backend/internal/domain/chat"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence"
	"github.com/facturo/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newChatService(t *testing.T) *appchat.Service {
	t.Helper()
	return appchat.NewService(persistence.NewGormChatMessageRepository(testutil.NewSQLiteDB(t)), nil)
}

func TestService_Conversation(t *testing.T) {
	svc := newChatService(t)
	ctx := context.Background()
	user := identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}
	admin := identity.Principal{UserID: uuid.New(), Role: identity.RoleAdmin}

	sent, err := svc.Send(ctx, user, user.UserID, appchat.SendMessageRequest{Content: "Ma facture ne s'affiche pas"})
	require.NoError(t, err)
	assert.False(t, sent.FromAdmin)

	reply, err := svc.Send(ctx, admin, user.UserID, appchat.SendMessageRequest{Content: "Nous regardons"})
	require.NoError(t, err)
	assert.True(t, reply.FromAdmin)
	assert.Equal(t, user.UserID, reply.UserID)
	assert.Equal(t, admin.UserID, reply.SenderID)

	page, err := svc.ListConversation(ctx, user, user.UserID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, sent.ID, page.Items[0].ID, "oldest first")

	inbox, err := svc.ListConversations(ctx, admin, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, inbox.Items, 1)
	assert.Equal(t, int64(1), inbox.Total)
	assert.Equal(t, int64(1), inbox.Items[0].UnreadCount)
	assert.Equal(t, "Nous regardons", inbox.Items[0].LastMessage)

	read, err := svc.MarkRead(ctx, user, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), read.Marked, "the user reads the admin reply")

	read, err = svc.MarkRead(ctx, admin, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), read.Marked)

	inbox, err = svc.ListConversations(ctx, admin, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, inbox.Items[0].UnreadCount)
}

func TestService_Access(t *testing.T) {
	svc := newChatService(t)
	ctx := context.Background()
	user := identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}
	other := identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}

	_, err := svc.Send(ctx, user, other.UserID, appchat.SendMessageRequest{Content: "hello"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = svc.ListConversation(ctx, other, user.UserID, shared.DefaultFilter())
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = svc.MarkRead(ctx, other, user.UserID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = svc.ListConversations(ctx, user, shared.DefaultFilter())
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Send(ctx, user, user.UserID, appchat.SendMessageRequest{Content: "   "})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CONTENT", domainErr.Code)
}

func TestService_SendPublishesEvent(t *testing.T) {
	svc := newChatService(t)
	ctx := context.Background()
	user := identity.Principal{UserID: uuid.New(), Role: identity.RoleUser}

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 &&
			events[0].EventType() == chat.EventTypeMessageSent &&
			events[0].UserID() == user.UserID
	})).Return(nil).Once()
	svc.SetEventPublisher(publisher)

	_, err := svc.Send(ctx, user, user.UserID, appchat.SendMessageRequest{Content: "Bonjour"})
	require.NoError(t, err)
	publisher.AssertExpectations(t)
}
