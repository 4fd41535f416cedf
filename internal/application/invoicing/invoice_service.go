// Package invoicing implements the invoice, quote and delivery note use cases.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultNumberRetries bounds the attempts made when a number is already taken
const DefaultNumberRetries = 5

// Config tunes the invoicing services
type Config struct {
	// StrictStatusTransitions enforces the lifecycle table on status changes
	StrictStatusTransitions bool
	// NumberRetries is the number of attempts before a duplicate number is reported
	NumberRetries int
	// Location is the timezone of "today" for generated documents
	Location *time.Location
}

func (c Config) withDefaults() Config {
	if c.NumberRetries < 1 {
		c.NumberRetries = DefaultNumberRetries
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// InvoiceService handles invoice business operations
type InvoiceService struct {
	scope       TransactionScope
	invoiceRepo invoicing.InvoiceRepository
	clientRepo  partner.ClientRepository
	companyRepo company.ProfileRepository
	cache       shared.ListCache
	cfg         Config
	now         func() time.Time
	logger      *zap.Logger

	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	scope TransactionScope,
	invoiceRepo invoicing.InvoiceRepository,
	clientRepo partner.ClientRepository,
	companyRepo company.ProfileRepository,
	cache shared.ListCache,
	cfg Config,
	logger *zap.Logger,
) *InvoiceService {
	if cache == nil {
		cache = shared.NoopListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		scope:       scope,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		companyRepo: companyRepo,
		cache:       cache,
		cfg:         cfg.withDefaults(),
		now:         time.Now,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *InvoiceService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// SetClock replaces the clock used for numbering years
func (s *InvoiceService) SetClock(now func() time.Time) {
	s.now = now
}

// Create validates the request, then allocates a number and inserts the
// invoice with all its lines in one transaction.
func (s *InvoiceService) Create(ctx context.Context, p identity.Principal, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, p.UserID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrClientID, req.ClientID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrItemCount, len(req.Items)),
	)
	defer span.End()

	date, err := time.ParseInLocation(DateLayout, req.Date, s.cfg.Location)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Date must use the YYYY-MM-DD format")
	}

	profile, err := s.companyRepo.FindByUser(ctx, p.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrCompanyProfileRequired
		}
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}

	exists, err := s.clientRepo.ExistsForUser(ctx, p.UserID, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check client: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", "Client not found")
	}

	lines := make([]invoicing.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = item.Line()
	}

	inv, err := invoicing.NewInvoice(p.UserID, profile.ID, req.ClientID, date, lines)
	if err != nil {
		return nil, err
	}
	inv.Comments = strings.TrimSpace(req.Comments)
	inv.Styling = invoicing.CustomStyling{
		PaymentTerms: req.PaymentTerms,
		HeaderNote:   req.HeaderNote,
		FooterNote:   req.FooterNote,
	}

	if err := s.insertWithNumber(ctx, inv); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	inv.AddDomainEvent(invoicing.NewInvoiceCreatedEvent(inv))

	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceID, inv.ID.String(),
		telemetry.SpanAttrDocumentNumber, inv.Number,
		telemetry.SpanAttrAmount, inv.TotalAmount.String(),
	)
	s.businessMetrics.RecordInvoiceIssued(ctx, invoicing.FamilyInvoice.String(), inv.TotalAmount)
	common.Invalidate(ctx, s.cache, s.logger, p.UserID, shared.ResourceInvoices)
	common.Publish(ctx, s.eventPublisher, s.logger, inv)

	s.logger.Info("invoice created",
		zap.String("user_id", p.UserID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// insertWithNumber runs allocate+insert, retrying on a duplicate number.
// Each retry is a fresh transaction that first raises the counter to the
// highest number actually stored.
func (s *InvoiceService) insertWithNumber(ctx context.Context, inv *invoicing.Invoice) error {
	var lastErr error
	for attempt := 0; attempt < s.cfg.NumberRetries; attempt++ {
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			now := s.now().In(s.cfg.Location)
			if attempt > 0 {
				if err := repos.Numbers().Resync(ctx, inv.UserID, invoicing.FamilyInvoice, now); err != nil {
					return fmt.Errorf("failed to resync invoice numbers: %w", err)
				}
			}
			number, err := repos.Numbers().Allocate(ctx, inv.UserID, invoicing.FamilyInvoice, now)
			if err != nil {
				return fmt.Errorf("failed to allocate invoice number: %w", err)
			}
			inv.Number = ""
			if err := inv.AssignNumber(number); err != nil {
				return err
			}
			return repos.Invoices().Create(ctx, inv)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, invoicing.ErrDuplicateNumber) {
			inv.Number = ""
			return err
		}
		lastErr = err
		telemetry.AddEvent(trace.SpanFromContext(ctx), "number_conflict",
			telemetry.SpanAttrDocumentNumber, inv.Number,
			telemetry.SpanAttrAttempt, attempt+1)
		s.businessMetrics.RecordNumberConflict(ctx, invoicing.FamilyInvoice.String())
		s.logger.Warn("invoice number already taken, retrying",
			zap.String("number", inv.Number),
			zap.Int("attempt", attempt+1))
	}
	inv.Number = ""
	return lastErr
}

// Get returns an invoice with its lines
func (s *InvoiceService) Get(ctx context.Context, p identity.Principal, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List returns a page of the user's invoices
func (s *InvoiceService) List(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[InvoiceResponse], error) {
	return common.CachedPage(ctx, s.cache, s.logger, p.UserID, shared.ResourceInvoices, filter,
		func() (*shared.Paginated[InvoiceResponse], error) {
			invoices, err := s.invoiceRepo.FindAllForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			total, err := s.invoiceRepo.CountForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			page := shared.NewPaginated(ToInvoiceResponses(invoices), total, filter.Page, filter.PageSize)
			return &page, nil
		})
}

// Update replaces the comments and printed notes; the number and lines never change
func (s *InvoiceService) Update(ctx context.Context, p identity.Principal, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	inv.Update(req.Comments, invoicing.CustomStyling{
		PaymentTerms: req.PaymentTerms,
		HeaderNote:   req.HeaderNote,
		FooterNote:   req.FooterNote,
	})
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	common.Invalidate(ctx, s.cache, s.logger, p.UserID, shared.ResourceInvoices)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// UpdateStatus sets the invoice status. Any status may be set unless strict
// transitions are configured.
func (s *InvoiceService) UpdateStatus(ctx context.Context, p identity.Principal, id uuid.UUID, req UpdateStatusRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "update_status",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, id.String()),
	)
	defer span.End()

	inv, err := s.invoiceRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	target := invoicing.Status(req.Status)
	if err := inv.ChangeStatus(target, s.cfg.StrictStatusTransitions); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice status: %w", err)
	}

	s.businessMetrics.RecordStatusChange(ctx, target.String())
	common.Invalidate(ctx, s.cache, s.logger, p.UserID, shared.ResourceInvoices)
	common.Publish(ctx, s.eventPublisher, s.logger, inv)

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Delete removes an invoice, its lines and its derived documents
func (s *InvoiceService) Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return err
	}
	if err := s.invoiceRepo.DeleteForUser(ctx, p.UserID, id); err != nil {
		return err
	}
	inv.AddDomainEvent(invoicing.NewInvoiceDeletedEvent(inv))

	common.Invalidate(ctx, s.cache, s.logger, p.UserID,
		shared.ResourceInvoices, shared.ResourceQuotes, shared.ResourceDeliveryNotes)
	common.Publish(ctx, s.eventPublisher, s.logger, inv)
	return nil
}

// PreviewTotals computes the totals of unsaved lines
func (s *InvoiceService) PreviewTotals(_ context.Context, req PreviewTotalsRequest) (*TotalsResponse, error) {
	lines := make([]invoicing.LineInput, len(req.Items))
	for i, item := range req.Items {
		line := item.Line()
		if err := line.Validate(); err != nil {
			return nil, err
		}
		lines[i] = line
	}
	resp := ToTotalsResponse(invoicing.ComputeTotals(lines))
	return &resp, nil
}
