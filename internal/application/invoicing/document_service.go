package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/application/common"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentService derives quotes and delivery notes from invoices
type DocumentService struct {
	scope     TransactionScope
	quoteRepo invoicing.QuoteRepository
	noteRepo  invoicing.DeliveryNoteRepository
	cache     shared.ListCache
	cfg       Config
	now       func() time.Time
	logger    *zap.Logger

	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	scope TransactionScope,
	quoteRepo invoicing.QuoteRepository,
	noteRepo invoicing.DeliveryNoteRepository,
	cache shared.ListCache,
	cfg Config,
	logger *zap.Logger,
) *DocumentService {
	if cache == nil {
		cache = shared.NoopListCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		scope:     scope,
		quoteRepo: quoteRepo,
		noteRepo:  noteRepo,
		cache:     cache,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *DocumentService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// SetClock replaces the clock used for document dates and numbering years
func (s *DocumentService) SetClock(now func() time.Time) {
	s.now = now
}

// GenerateQuote derives a quote from the invoice. The invoice is not modified.
func (s *DocumentService) GenerateQuote(ctx context.Context, p identity.Principal, invoiceID uuid.UUID) (*QuoteResponse, error) {
	var quote *invoicing.Quote
	err := s.generate(ctx, p, invoiceID, invoicing.KindQuote, func(repos TransactionalRepositories, source *invoicing.Invoice, number string, now time.Time) error {
		q, err := invoicing.DeriveQuote(source, number, today(now))
		if err != nil {
			return err
		}
		if err := repos.Quotes().Create(ctx, q); err != nil {
			return err
		}
		quote = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	common.Invalidate(ctx, s.cache, s.logger, p.UserID, shared.ResourceQuotes)
	common.Publish(ctx, s.eventPublisher, s.logger, quote)
	resp := ToQuoteResponse(quote)
	return &resp, nil
}

// GenerateDeliveryNote derives a delivery note from the invoice
func (s *DocumentService) GenerateDeliveryNote(ctx context.Context, p identity.Principal, invoiceID uuid.UUID) (*DeliveryNoteResponse, error) {
	var note *invoicing.DeliveryNote
	err := s.generate(ctx, p, invoiceID, invoicing.KindDeliveryNote, func(repos TransactionalRepositories, source *invoicing.Invoice, number string, now time.Time) error {
		n, err := invoicing.DeriveDeliveryNote(source, number, today(now))
		if err != nil {
			return err
		}
		if err := repos.DeliveryNotes().Create(ctx, n); err != nil {
			return err
		}
		note = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	common.Invalidate(ctx, s.cache, s.logger, p.UserID, shared.ResourceDeliveryNotes)
	common.Publish(ctx, s.eventPublisher, s.logger, note)
	resp := ToDeliveryNoteResponse(note)
	return &resp, nil
}

type insertDerived func(repos TransactionalRepositories, source *invoicing.Invoice, number string, now time.Time) error

// generate loads the source and allocates a number of kind's family inside
// one transaction, retrying on a duplicate number.
func (s *DocumentService) generate(ctx context.Context, p identity.Principal, invoiceID uuid.UUID, kind invoicing.DocumentKind, insert insertDerived) error {
	family := kind.Family()
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "generate",
		telemetry.WithAttribute(telemetry.SpanAttrInvoiceID, invoiceID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrDocumentKind, string(kind)),
	)
	defer span.End()

	var lastErr error
	for attempt := 0; attempt < s.cfg.NumberRetries; attempt++ {
		var number string
		err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			source, err := repos.Invoices().FindByIDForUser(ctx, p.UserID, invoiceID)
			if err != nil {
				return err
			}
			now := s.now().In(s.cfg.Location)
			if attempt > 0 {
				if err := repos.Numbers().Resync(ctx, p.UserID, family, now); err != nil {
					return fmt.Errorf("failed to resync %s numbers: %w", family, err)
				}
			}
			number, err = repos.Numbers().Allocate(ctx, p.UserID, family, now)
			if err != nil {
				return fmt.Errorf("failed to allocate %s number: %w", family, err)
			}
			return insert(repos, source, number, now)
		})
		if err == nil {
			telemetry.SetAttribute(span, telemetry.SpanAttrDocumentNumber, number)
			s.businessMetrics.RecordDocumentIssued(ctx, family.String())
			s.logger.Info("document generated",
				zap.String("kind", string(kind)),
				zap.String("invoice_id", invoiceID.String()),
				zap.String("number", number))
			return nil
		}
		if !errors.Is(err, invoicing.ErrDuplicateNumber) {
			telemetry.RecordError(span, err)
			return err
		}
		lastErr = err
		telemetry.AddEvent(span, "number_conflict",
			telemetry.SpanAttrDocumentNumber, number,
			telemetry.SpanAttrAttempt, attempt+1)
		s.businessMetrics.RecordNumberConflict(ctx, family.String())
		s.logger.Warn("document number already taken, retrying",
			zap.String("number", number),
			zap.Int("attempt", attempt+1))
	}
	telemetry.RecordError(span, lastErr)
	return lastErr
}

// today truncates t to midnight in its own location
func today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GetQuote returns a quote
func (s *DocumentService) GetQuote(ctx context.Context, p identity.Principal, id uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quoteRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(q)
	return &resp, nil
}

// ListQuotes returns a page of the user's quotes
func (s *DocumentService) ListQuotes(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[QuoteResponse], error) {
	return common.CachedPage(ctx, s.cache, s.logger, p.UserID, shared.ResourceQuotes, filter,
		func() (*shared.Paginated[QuoteResponse], error) {
			quotes, err := s.quoteRepo.FindAllForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			total, err := s.quoteRepo.CountForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			items := make([]QuoteResponse, len(quotes))
			for i := range quotes {
				items[i] = ToQuoteResponse(&quotes[i])
			}
			page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
			return &page, nil
		})
}

// DeleteQuote deletes a quote
func (s *DocumentService) DeleteQuote(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	if err := s.quoteRepo.DeleteForUser(ctx, p.UserID, id); err != nil {
		return err
	}
	common.Invalidate(ctx, s.cache, s.logger, p.UserID, shared.ResourceQuotes)
	return nil
}

// GetDeliveryNote returns a delivery note
func (s *DocumentService) GetDeliveryNote(ctx context.Context, p identity.Principal, id uuid.UUID) (*DeliveryNoteResponse, error) {
	n, err := s.noteRepo.FindByIDForUser(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDeliveryNoteResponse(n)
	return &resp, nil
}

// ListDeliveryNotes returns a page of the user's delivery notes
func (s *DocumentService) ListDeliveryNotes(ctx context.Context, p identity.Principal, filter shared.Filter) (*shared.Paginated[DeliveryNoteResponse], error) {
	return common.CachedPage(ctx, s.cache, s.logger, p.UserID, shared.ResourceDeliveryNotes, filter,
		func() (*shared.Paginated[DeliveryNoteResponse], error) {
			notes, err := s.noteRepo.FindAllForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			total, err := s.noteRepo.CountForUser(ctx, p.UserID, filter)
			if err != nil {
				return nil, err
			}
			items := make([]DeliveryNoteResponse, len(notes))
			for i := range notes {
				items[i] = ToDeliveryNoteResponse(&notes[i])
			}
			page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
			return &page, nil
		})
}

// DeleteDeliveryNote deletes a delivery note
func (s *DocumentService) DeleteDeliveryNote(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	if err := s.noteRepo.DeleteForUser(ctx, p.UserID, id); err != nil {
		return err
	}
	common.Invalidate(ctx, s.cache, s.logger, p.UserID, shared.ResourceDeliveryNotes)
	return nil
}
