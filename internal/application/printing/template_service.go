// Package printing manages invoice templates and exports documents as HTML
// and PDF.
package printing

import (
	"context"
	"errors"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/printing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateService handles invoice template operations
type TemplateService struct {
	templateRepo printing.InvoiceTemplateRepository
	cache        shared.ListCache
	logger       *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo printing.InvoiceTemplateRepository, cache shared.ListCache, logger *zap.Logger) *TemplateService {
	if cache == nil {
		cache = shared.NoopListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{templateRepo: templateRepo, cache: cache, logger: logger}
}

// Create creates a non-default template
func (s *TemplateService) Create(ctx context.Context, p identity.Principal, req TemplateRequest) (*TemplateResponse, error) {
	template, err := printing.NewInvoiceTemplate(p.UserID, req.input())
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.UserID)

	s.logger.Info("invoice template created",
		zap.String("template_id", template.ID.String()),
		zap.String("user_id", p.UserID.String()))

	resp := ToTemplateResponse(template)
	return &resp, nil
}

// Get returns a template
func (s *TemplateService) Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(template)
	return &resp, nil
}

// List returns a page of templates, the default one first
func (s *TemplateService) List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[TemplateResponse], error) {
	return common.CachedPage(ctx, s.cache, s.logger, p.UserID, shared.ResourceTemplates, filter,
		func() (*shared.Paginated[TemplateResponse], error) {
			templates, err := s.templateRepo.FindAllForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			total, err := s.templateRepo.CountForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			page := shared.NewPaginated(ToTemplateResponses(templates), total, filter.Page, filter.PageSize)
			return &page, nil
		})
}

// Update replaces a template's styling; its default flag is kept
func (s *TemplateService) Update(ctx context.Context, p identity.Principal, id uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	if err := template.Update(req.input()); err != nil {
		return nil, err
	}
	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.UserID)

	resp := ToTemplateResponse(template)
	return &resp, nil
}

// Delete removes a template. Deleting the default leaves the user on the
// built-in styling.
func (s *TemplateService) Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	if err := s.templateRepo.DeleteForUser(ctx, p.UserID, id); err != nil {
		return err
	}
	s.invalidate(ctx, p.UserID)
	return nil
}

// SetDefault makes a template the user's only default
func (s *TemplateService) SetDefault(ctx context.Context, p identity.Principal, id uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	if err := s.templateRepo.SetDefault(ctx, template); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.UserID)

	s.logger.Info("default invoice template changed",
		zap.String("template_id", template.ID.String()),
		zap.String("user_id", p.UserID.String()))

	resp := ToTemplateResponse(template)
	return &resp, nil
}

// GetDefault returns the user's default template, or the built-in one
func (s *TemplateService) GetDefault(ctx context.Context, p identity.Principal) (*TemplateResponse, error) {
	template, err := s.templateRepo.FindDefault(ctx, p.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		template = printing.DefaultTemplate()
	} else if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(template)
	return &resp, nil
}

func (s *TemplateService) invalidate(ctx context.Context, userID uuid.UUID) {
	common.Invalidate(ctx, s.cache, s.logger, userID, shared.ResourceTemplates)
}
