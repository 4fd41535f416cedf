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

// SupplierService handles supplier business operations
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	cache          shared.ListCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, cache shared.ListCache, logger *zap.Logger) *SupplierService {
	if cache == nil {
		cache = shared.NoopListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{supplierRepo: supplierRepo, cache: cache, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, p identity.Principal, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(p.UserID, req.Name, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.changed(ctx, p.UserID, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Get returns a supplier
func (s *SupplierService) Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns a page of the user's suppliers
func (s *SupplierService) List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[SupplierResponse], error) {
	return common.CachedPage(ctx, s.cache, s.logger, p.UserID, shared.ResourceSuppliers, filter,
		func() (*shared.Paginated[SupplierResponse], error) {
			suppliers, err := s.supplierRepo.FindAllForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			total, err := s.supplierRepo.CountForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			page := shared.NewPaginated(ToSupplierResponses(suppliers), total, filter.Page, filter.PageSize)
			return &page, nil
		})
}

// Update replaces a supplier's details
func (s *SupplierService) Update(ctx context.Context, p identity.Principal, id uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.details()); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.changed(ctx, p.UserID, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return err
	}
	if err := s.supplierRepo.DeleteForUser(ctx, p.UserID, id); err != nil {
		return err
	}
	supplier.AddDomainEvent(partner.NewPartnerChangedEvent(partner.EventTypeSupplierDeleted, partner.AggregateTypeSupplier, supplier.ID, supplier.UserID, supplier.Name))
	s.changed(ctx, p.UserID, supplier)
	return nil
}

func (s *SupplierService) changed(ctx context.Context, userID uuid.UUID, supplier *partner.Supplier) {
	common.Invalidate(ctx, s.cache, s.logger, userID, shared.ResourceSuppliers)
	common.Publish(ctx, s.eventPublisher, s.logger, supplier)
}
