package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) CountForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteForUser(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockClientRepository) ExistsForUser(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

// MockListCache records invalidations
type MockListCache struct {
	shared.NoopListCache
	invalidated []string
}

func (c *MockListCache) InvalidateResource(_ context.Context, _ uuid.UUID, resource string) error {
	c.invalidated = append(c.invalidated, resource)
	return nil
}

// MockEventPublisher collects published events
type MockEventPublisher struct {
	events []shared.DomainEvent
}

func (p *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newTestPrincipal() identity.Principal {
	return identity.Principal{UserID: uuid.New(), Email: "owner@example.com", Role: identity.RoleUser}
}

func TestClientService_Create(t *testing.T) {
	repo := new(MockClientRepository)
	cache := &MockListCache{}
	publisher := &MockEventPublisher{}
	service := NewClientService(repo, cache, nil)
	service.SetEventPublisher(publisher)

	ctx := context.Background()
	p := newTestPrincipal()
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

	resp, err := service.Create(ctx, p, ClientRequest{Name: "  ACME  ", Email: "compta@acme.fr"})
	require.NoError(t, err)
	assert.Equal(t, "ACME", resp.Name)
	assert.Equal(t, "compta@acme.fr", resp.Email)
	assert.Equal(t, []string{shared.ResourceClients}, cache.invalidated)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, partner.EventTypeClientCreated, publisher.events[0].EventType())
	repo.AssertExpectations(t)
}

func TestClientService_Create_InvalidName(t *testing.T) {
	repo := new(MockClientRepository)
	service := NewClientService(repo, nil, nil)

	_, err := service.Create(context.Background(), newTestPrincipal(), ClientRequest{Name: "   "})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CLIENT_NAME", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestClientService_Create_SaveFails(t *testing.T) {
	repo := new(MockClientRepository)
	cache := &MockListCache{}
	service := NewClientService(repo, cache, nil)
	ctx := context.Background()
	repo.On("Save", ctx, mock.Anything).Return(errors.New("connection refused"))

	_, err := service.Create(ctx, newTestPrincipal(), ClientRequest{Name: "ACME"})
	assert.Error(t, err)
	assert.Empty(t, cache.invalidated, "a failed write invalidates nothing")
}

func TestClientService_Update(t *testing.T) {
	repo := new(MockClientRepository)
	service := NewClientService(repo, nil, nil)
	ctx := context.Background()
	p := newTestPrincipal()

	client, err := partner.NewClient(p.UserID, "ACME", partner.Contact{})
	require.NoError(t, err)
	client.ClearDomainEvents()

	repo.On("FindByIDForUser", ctx, p.UserID, client.ID).Return(client, nil)
	repo.On("Save", ctx, client).Return(nil)

	resp, err := service.Update(ctx, p, client.ID, ClientRequest{Name: "ACME Group", Phone: "01 02 03 04 05"})
	require.NoError(t, err)
	assert.Equal(t, "ACME Group", resp.Name)
	assert.Equal(t, "01 02 03 04 05", resp.Phone)
	assert.Equal(t, 2, resp.Version)
}

func TestClientService_Get_NotOwned(t *testing.T) {
	repo := new(MockClientRepository)
	service := NewClientService(repo, nil, nil)
	ctx := context.Background()
	p := newTestPrincipal()
	id := uuid.New()
	repo.On("FindByIDForUser", ctx, p.UserID, id).Return(nil, shared.ErrNotFound)

	_, err := service.Get(ctx, p, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClientService_List(t *testing.T) {
	repo := new(MockClientRepository)
	service := NewClientService(repo, nil, nil)
	ctx := context.Background()
	p := newTestPrincipal()
	filter := shared.DefaultFilter()

	a, _ := partner.NewClient(p.UserID, "A", partner.Contact{})
	b, _ := partner.NewClient(p.UserID, "B", partner.Contact{})
	repo.On("FindAllForUser", ctx, p.UserID, filter).Return([]partner.Client{*a, *b}, nil)
	repo.On("CountForUser", ctx, p.UserID, filter).Return(int64(2), nil)

	page, err := service.List(ctx, p, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "A", page.Items[0].Name)
}

func TestClientService_Delete(t *testing.T) {
	repo := new(MockClientRepository)
	cache := &MockListCache{}
	publisher := &MockEventPublisher{}
	service := NewClientService(repo, cache, nil)
	service.SetEventPublisher(publisher)
	ctx := context.Background()
	p := newTestPrincipal()

	client, _ := partner.NewClient(p.UserID, "ACME", partner.Contact{})
	client.ClearDomainEvents()
	repo.On("FindByIDForUser", ctx, p.UserID, client.ID).Return(client, nil)
	repo.On("DeleteForUser", ctx, p.UserID, client.ID).Return(nil)

	require.NoError(t, service.Delete(ctx, p, client.ID))
	assert.ElementsMatch(t, []string{
		shared.ResourceClients, shared.ResourceInvoices, shared.ResourceQuotes, shared.ResourceDeliveryNotes,
	}, cache.invalidated)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, partner.EventTypeClientDeleted, publisher.events[0].EventType())
}
