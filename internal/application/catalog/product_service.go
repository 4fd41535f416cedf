// Package catalog implements the product and service catalog.
package catalog

import (
	"context"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/catalog"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	cache          shared.ListCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, cache shared.ListCache, logger *zap.Logger) *ProductService {
	if cache == nil {
		cache = shared.NoopListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{productRepo: productRepo, cache: cache, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, p identity.Principal, req ProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(p.UserID, req.input())
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.changed(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Get returns a product
func (s *ProductService) Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of the user's products
func (s *ProductService) List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	return common.CachedPage(ctx, s.cache, s.logger, p.UserID, shared.ResourceProducts, filter,
		func() (*shared.Paginated[ProductResponse], error) {
			products, err := s.productRepo.FindAllForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			total, err := s.productRepo.CountForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			page := shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize)
			return &page, nil
		})
}

// Update replaces a product's fields. An empty type keeps the current one.
func (s *ProductService) Update(ctx context.Context, p identity.Principal, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.changed(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product. Invoice lines copied from it are unaffected.
func (s *ProductService) Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	product, err := s.productRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.DeleteForUser(ctx, p.UserID, id); err != nil {
		return err
	}
	product.AddDomainEvent(catalog.NewProductChangedEvent(catalog.EventTypeProductDeleted, product))
	s.changed(ctx, product)
	return nil
}

func (s *ProductService) changed(ctx context.Context, product *catalog.Product) {
	common.Invalidate(ctx, s.cache, s.logger, product.UserID, shared.ResourceProducts)
	common.Publish(ctx, s.eventPublisher, s.logger, product)
}
