package printing

import (
	"context"
	"errors"

	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/printing"
	"github.com/facturo/backend/internal/domain/shared"
	infra "github.com/facturo/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HTMLRenderer turns a joined document into HTML
type HTMLRenderer interface {
	Render(doc *printing.DocumentView, style *printing.TemplateStyle) (string, error)
}

// ExportRepositories groups the repositories the document fetcher reads
type ExportRepositories struct {
	Invoices      invoicing.InvoiceRepository
	Quotes        invoicing.QuoteRepository
	DeliveryNotes invoicing.DeliveryNoteRepository
	Clients       partner.ClientRepository
	Profiles      company.ProfileRepository
	Templates     printing.InvoiceTemplateRepository
}

// ExportService renders invoices, quotes and delivery notes
type ExportService struct {
	repos     ExportRepositories
	html      HTMLRenderer
	pdf       infra.PDFRenderer
	paperSize printing.PaperSize
	logger    *zap.Logger
}

// NewExportService creates a new ExportService. A nil pdf renderer disables
// PDF export.
func NewExportService(repos ExportRepositories, html HTMLRenderer, pdf infra.PDFRenderer, logger *zap.Logger) *ExportService {
	if pdf == nil {
		pdf = infra.DisabledRenderer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repos:     repos,
		html:      html,
		pdf:       pdf,
		paperSize: printing.PaperSizeA4,
		logger:    logger,
	}
}

// SetPaperSize changes the PDF paper size
func (s *ExportService) SetPaperSize(size printing.PaperSize) {
	if size.IsValid() {
		s.paperSize = size
	}
}

// RenderHTML renders a document. templateID picks the styling; nil uses the
// user's default template, then the built-in one.
func (s *ExportService) RenderHTML(ctx context.Context, p identity.Principal, kind invoicing.DocumentKind, id uuid.UUID, templateID *uuid.UUID) (*HTMLDocument, error) {
	doc, err := s.fetch(ctx, p.UserID, kind, id)
	if err != nil {
		return nil, err
	}
	style, err := s.resolveStyle(ctx, p.UserID, templateID)
	if err != nil {
		return nil, err
	}
	html, err := s.html.Render(doc, style)
	if err != nil {
		return nil, err
	}
	return &HTMLDocument{Number: doc.Number, HTML: html}, nil
}

// ExportPDF renders a document and prints it to PDF as {number}.pdf
func (s *ExportService) ExportPDF(ctx context.Context, p identity.Principal, kind invoicing.DocumentKind, id uuid.UUID, templateID *uuid.UUID) (*PDFDocument, error) {
	rendered, err := s.RenderHTML(ctx, p, kind, id, templateID)
	if err != nil {
		return nil, err
	}
	result, err := s.pdf.Render(ctx, &infra.RenderRequest{
		HTML:      rendered.HTML,
		PaperSize: s.paperSize,
		Margins:   printing.DefaultMargins(),
	})
	if err != nil {
		s.logger.Error("PDF export failed",
			zap.String("kind", string(kind)),
			zap.String("number", rendered.Number),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("document exported",
		zap.String("kind", string(kind)),
		zap.String("number", rendered.Number),
		zap.Int("bytes", len(result.PDFData)),
		zap.Duration("duration", result.RenderDuration))

	return &PDFDocument{
		Filename: rendered.Number + ".pdf",
		Content:  result.PDFData,
		Pages:    result.PageCount,
	}, nil
}

// fetch joins the document with its source invoice, client and profile
func (s *ExportService) fetch(ctx context.Context, userID uuid.UUID, kind invoicing.DocumentKind, id uuid.UUID) (*printing.DocumentView, error) {
	switch kind {
	case invoicing.KindInvoice:
		inv, err := s.repos.Invoices.FindByIDForUser(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		view, err := s.invoiceView(ctx, inv)
		if err != nil {
			return nil, err
		}
		return printing.InvoiceDocument(view, inv.Comments), nil

	case invoicing.KindQuote:
		quote, err := s.repos.Quotes.FindByIDForUser(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		source, err := s.sourceView(ctx, userID, quote.InvoiceID)
		if err != nil {
			return nil, err
		}
		return printing.QuoteDocument(quote, source), nil

	case invoicing.KindDeliveryNote:
		note, err := s.repos.DeliveryNotes.FindByIDForUser(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		source, err := s.sourceView(ctx, userID, note.InvoiceID)
		if err != nil {
			return nil, err
		}
		return printing.DeliveryNoteDocument(note, source), nil
	}
	return nil, shared.NewDomainError("INVALID_DOCUMENT_KIND", "Document kind must be invoice, quote or delivery_note")
}

func (s *ExportService) sourceView(ctx context.Context, userID, invoiceID uuid.UUID) (*printing.InvoiceView, error) {
	inv, err := s.repos.Invoices.FindByIDForUser(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.invoiceView(ctx, inv)
}

func (s *ExportService) invoiceView(ctx context.Context, inv *invoicing.Invoice) (*printing.InvoiceView, error) {
	client, err := s.repos.Clients.FindByIDForUser(ctx, inv.UserID, inv.ClientID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	profile, err := s.repos.Profiles.FindByUser(ctx, inv.UserID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return printing.NewInvoiceView(inv, client, profile), nil
}

// resolveStyle picks the explicit template, else the user's default, else
// the built-in styling
func (s *ExportService) resolveStyle(ctx context.Context, userID uuid.UUID, templateID *uuid.UUID) (*printing.TemplateStyle, error) {
	if templateID != nil {
		template, err := s.repos.Templates.FindByIDForUser(ctx, userID, *templateID)
		if err != nil {
			return nil, err
		}
		return template.Style(), nil
	}
	template, err := s.repos.Templates.FindDefault(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return printing.DefaultStyle(), nil
	}
	if err != nil {
		return nil, err
	}
	return template.Style(), nil
}
