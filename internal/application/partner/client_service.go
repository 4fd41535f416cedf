// Package partner implements client and supplier management.
package partner

import (
	"context"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService handles client business operations
type ClientService struct {
	clientRepo     partner.ClientRepository
	cache          shared.ListCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, cache shared.ListCache, logger *zap.Logger) *ClientService {
	if cache == nil {
		cache = shared.NoopListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{clientRepo: clientRepo, cache: cache, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, p identity.Principal, req ClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(p.UserID, req.Name, req.contact())
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.changed(ctx, p.UserID, client)

	resp := ToClientResponse(client)
	return &resp, nil
}

// Get returns a client
func (s *ClientService) Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// List returns a page of the user's clients
func (s *ClientService) List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[ClientResponse], error) {
	return common.CachedPage(ctx, s.cache, s.logger, p.UserID, shared.ResourceClients, filter,
		func() (*shared.Paginated[ClientResponse], error) {
			clients, err := s.clientRepo.FindAllForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			total, err := s.clientRepo.CountForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			page := shared.NewPaginated(ToClientResponses(clients), total, filter.Page, filter.PageSize)
			return &page, nil
		})
}

// Update replaces a client's details
func (s *ClientService) Update(ctx context.Context, p identity.Principal, id uuid.UUID, req ClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	if err := client.Update(req.Name, req.contact()); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.changed(ctx, p.UserID, client)

	resp := ToClientResponse(client)
	return &resp, nil
}

// Delete removes a client. Its invoices and their derived documents go with it.
func (s *ClientService) Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	client, err := s.clientRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return err
	}
	if err := s.clientRepo.DeleteForUser(ctx, p.UserID, id); err != nil {
		return err
	}
	client.AddDomainEvent(partner.NewPartnerChangedEvent(partner.EventTypeClientDeleted, partner.AggregateTypeClient, client.ID, client.UserID, client.Name))
	common.Invalidate(ctx, s.cache, s.logger, p.UserID,
		shared.ResourceClients, shared.ResourceInvoices, shared.ResourceQuotes, shared.ResourceDeliveryNotes)
	common.Publish(ctx, s.eventPublisher, s.logger, client)
	return nil
}

func (s *ClientService) changed(ctx context.Context, userID uuid.UUID, client *partner.Client) {
	common.Invalidate(ctx, s.cache, s.logger, userID, shared.ResourceClients)
	common.Publish(ctx, s.eventPublisher, s.logger, client)
}
