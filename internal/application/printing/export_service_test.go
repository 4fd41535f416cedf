package printing_test

import (
	"context"
	"strings"
	"testing"
	"time"

	appinv "github.com/facturo/backend/internal/application/invoicing"
	appprint "github.com/facturo/backend/internal/application/printing"
	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/printing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence"
	infra "github.com/facturo/backend/internal/infrastructure/printing"
	"github.com/facturo/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockPDFRenderer is a mock implementation of the PDF renderer
type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error { return nil }

// issuedAt pins document numbers to the 2025 series
var issuedAt = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

type exportFixture struct {
	db        *gorm.DB
	principal identity.Principal
	invoiceID uuid.UUID
	number    string
	documents *appinv.DocumentService
	templates *appprint.TemplateService
	pdf       *MockPDFRenderer
	export    *appprint.ExportService
}

func newExportFixture(t *testing.T) *exportFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	userID := uuid.New()

	profile, err := company.NewProfile(userID, company.Details{Name: "Atelier Martin", TaxID: "FR123"})
	require.NoError(t, err)
	require.NoError(t, profile.SetAsset(company.AssetLogo, "https://cdn.example.com/logo.png"))
	require.NoError(t, persistence.NewGormCompanyProfileRepository(db).Upsert(ctx, profile))

	client, err := partner.NewClient(userID, "jean dupont", partner.Contact{Email: "jean@example.fr"})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormClientRepository(db).Save(ctx, client))

	p := identity.Principal{UserID: userID, Role: identity.RoleUser}
	scope := persistence.NewGormTransactionScope(db)
	invoices := appinv.NewInvoiceService(scope,
		persistence.NewGormInvoiceRepository(db),
		persistence.NewGormClientRepository(db),
		persistence.NewGormCompanyProfileRepository(db),
		nil, appinv.Config{}, nil)
	invoices.SetClock(func() time.Time { return issuedAt })
	inv, err := invoices.Create(ctx, p, appinv.CreateInvoiceRequest{
		ClientID:     client.ID,
		Date:         "2025-06-10",
		Comments:     "Merci pour votre confiance",
		PaymentTerms: "30 jours",
		Items: []appinv.InvoiceItemInput{
			{Description: "Conseil", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), TVA: decimal.NewFromInt(18)},
			{Description: "Frais", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), TVA: decimal.Zero},
		},
	})
	require.NoError(t, err)

	documents := appinv.NewDocumentService(scope,
		persistence.NewGormQuoteRepository(db),
		persistence.NewGormDeliveryNoteRepository(db),
		nil, appinv.Config{}, nil)
	documents.SetClock(func() time.Time { return issuedAt.AddDate(0, 0, 2) })

	pdf := new(MockPDFRenderer)
	export := appprint.NewExportService(appprint.ExportRepositories{
		Invoices:      persistence.NewGormInvoiceRepository(db),
		Quotes:        persistence.NewGormQuoteRepository(db),
		DeliveryNotes: persistence.NewGormDeliveryNoteRepository(db),
		Clients:       persistence.NewGormClientRepository(db),
		Profiles:      persistence.NewGormCompanyProfileRepository(db),
		Templates:     persistence.NewGormInvoiceTemplateRepository(db),
	}, infra.MustNewTemplateEngine(), pdf, nil)

	return &exportFixture{
		db:        db,
		principal: p,
		invoiceID: inv.ID,
		number:    inv.Number,
		documents: documents,
		templates: appprint.NewTemplateService(persistence.NewGormInvoiceTemplateRepository(db), nil, nil),
		pdf:       pdf,
		export:    export,
	}
}

func TestExportService_RenderInvoice(t *testing.T) {
	f := newExportFixture(t)

	doc, err := f.export.RenderHTML(context.Background(), f.principal, invoicing.KindInvoice, f.invoiceID, nil)
	require.NoError(t, err)

	assert.Equal(t, "FAC-25-0001", doc.Number)
	assert.Contains(t, doc.HTML, "FACTURE PROFORMA")
	assert.Contains(t, doc.HTML, "Jean Dupont")
	assert.Contains(t, doc.HTML, "Atelier Martin")
	assert.Contains(t, doc.HTML, "286,00\u00a0€")
	assert.Contains(t, doc.HTML, "Merci pour votre confiance")
	assert.Contains(t, doc.HTML, "https://cdn.example.com/logo.png")
	assert.NotContains(t, doc.HTML, `class="signature"`)
	assert.Contains(t, doc.HTML, printing.DefaultColorScheme().Primary)
}

func TestExportService_RenderDerivedDocuments(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	quote, err := f.documents.GenerateQuote(ctx, f.principal, f.invoiceID)
	require.NoError(t, err)
	doc, err := f.export.RenderHTML(ctx, f.principal, invoicing.KindQuote, quote.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "DEVIS-25-0001", doc.Number)
	assert.Contains(t, doc.HTML, "<h1>DEVIS</h1>")
	assert.Contains(t, doc.HTML, "12/06/2025")
	assert.Contains(t, doc.HTML, "Devis généré à partir de la facture FAC-25-0001")
	assert.Contains(t, doc.HTML, "Conseil")
	assert.Contains(t, doc.HTML, "Jean Dupont")

	note, err := f.documents.GenerateDeliveryNote(ctx, f.principal, f.invoiceID)
	require.NoError(t, err)
	doc, err = f.export.RenderHTML(ctx, f.principal, invoicing.KindDeliveryNote, note.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "BL-25-0001", doc.Number)
	assert.Contains(t, doc.HTML, "BON DE LIVRAISON")
	assert.Contains(t, doc.HTML, "Frais")
	assert.NotContains(t, doc.HTML, "Total TTC")
}

func TestExportService_TemplateResolution(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	chosen, err := f.templates.Create(ctx, f.principal, appprint.TemplateRequest{
		Name:        "Bordeaux",
		ColorScheme: appprint.ColorSchemeDTO{Primary: "#7f1d1d"},
	})
	require.NoError(t, err)
	def, err := f.templates.Create(ctx, f.principal, appprint.TemplateRequest{
		Name:        "Forêt",
		ColorScheme: appprint.ColorSchemeDTO{Primary: "#14532d"},
		Layout:      "minimal",
	})
	require.NoError(t, err)

	doc, err := f.export.RenderHTML(ctx, f.principal, invoicing.KindInvoice, f.invoiceID, nil)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, printing.DefaultColorScheme().Primary, "no default yet")

	_, err = f.templates.SetDefault(ctx, f.principal, def.ID)
	require.NoError(t, err)
	doc, err = f.export.RenderHTML(ctx, f.principal, invoicing.KindInvoice, f.invoiceID, nil)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "#14532d")
	assert.Contains(t, doc.HTML, "layout-minimal")

	doc, err = f.export.RenderHTML(ctx, f.principal, invoicing.KindInvoice, f.invoiceID, &chosen.ID)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "#7f1d1d")
	assert.NotContains(t, doc.HTML, "#14532d")

	missing := uuid.New()
	_, err = f.export.RenderHTML(ctx, f.principal, invoicing.KindInvoice, f.invoiceID, &missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestExportService_ExportPDF(t *testing.T) {
	f := newExportFixture(t)
	ctx := context.Background()

	f.pdf.On("Render", mock.Anything, mock.MatchedBy(func(req *infra.RenderRequest) bool {
		return req.PaperSize == printing.PaperSizeA4 && strings.Contains(req.HTML, "FAC-25-0001")
	})).Return(&infra.RenderResult{PDFData: []byte("%PDF-1.7"), PageCount: 1}, nil)

	out, err := f.export.ExportPDF(ctx, f.principal, invoicing.KindInvoice, f.invoiceID, nil)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0001.pdf", out.Filename)
	assert.Equal(t, []byte("%PDF-1.7"), out.Content)
	f.pdf.AssertExpectations(t)
}

func TestExportService_ExportPDF_RendererFailure(t *testing.T) {
	f := newExportFixture(t)
	f.pdf.On("Render", mock.Anything, mock.Anything).
		Return(nil, infra.NewRenderError(infra.ErrCodeRenderTimeout, "timed out", nil))

	_, err := f.export.ExportPDF(context.Background(), f.principal, invoicing.KindInvoice, f.invoiceID, nil)
	var renderErr *infra.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, infra.ErrCodeRenderTimeout, renderErr.Code)
}

func TestExportService_Ownership(t *testing.T) {
	f := newExportFixture(t)
	stranger := identity.Principal{UserID: uuid.New()}

	_, err := f.export.RenderHTML(context.Background(), stranger, invoicing.KindInvoice, f.invoiceID, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.export.RenderHTML(context.Background(), f.principal, "receipt", f.invoiceID, nil)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DOCUMENT_KIND", domainErr.Code)
}

func TestExportService_DisabledPDF(t *testing.T) {
	f := newExportFixture(t)
	export := appprint.NewExportService(appprint.ExportRepositories{
		Invoices:  persistence.NewGormInvoiceRepository(f.db),
		Clients:   persistence.NewGormClientRepository(f.db),
		Profiles:  persistence.NewGormCompanyProfileRepository(f.db),
		Templates: persistence.NewGormInvoiceTemplateRepository(f.db),
	}, infra.MustNewTemplateEngine(), nil, nil)

	_, err := export.ExportPDF(context.Background(), f.principal, invoicing.KindInvoice, f.invoiceID, nil)
	var renderErr *infra.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, infra.ErrCodeRendererDisabled, renderErr.Code)
}
