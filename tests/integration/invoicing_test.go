package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	appinv "github.com/facturo/backend/internal/application/invoicing"
	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/printing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type invoicingFixture struct {
	db        *TestDB
	principal identity.Principal
	clientID  uuid.UUID
	invoices  *appinv.InvoiceService
	documents *appinv.DocumentService
}

func newInvoicingFixture(t *testing.T) *invoicingFixture {
	t.Helper()
	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	userID := testDB.CreateTestUser()

	profile, err := company.NewProfile(userID, company.Details{Name: "Atelier Dupont"})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCompanyProfileRepository(testDB.DB).Upsert(ctx, profile))

	client, err := partner.NewClient(userID, "ACME", partner.Contact{})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormClientRepository(testDB.DB).Save(ctx, client))

	scope := persistence.NewGormTransactionScope(testDB.DB)
	invoices := appinv.NewInvoiceService(scope,
		persistence.NewGormInvoiceRepository(testDB.DB),
		persistence.NewGormClientRepository(testDB.DB),
		persistence.NewGormCompanyProfileRepository(testDB.DB),
		nil, appinv.Config{}, nil)
	invoices.SetClock(func() time.Time { return issuedAt })

	documents := appinv.NewDocumentService(scope,
		persistence.NewGormQuoteRepository(testDB.DB),
		persistence.NewGormDeliveryNoteRepository(testDB.DB),
		nil, appinv.Config{}, nil)
	documents.SetClock(func() time.Time { return issuedAt })

	return &invoicingFixture{
		db:        testDB,
		principal: identity.Principal{UserID: userID, Role: identity.RoleUser},
		clientID:  client.ID,
		invoices:  invoices,
		documents: documents,
	}
}

func (f *invoicingFixture) request() appinv.CreateInvoiceRequest {
	return appinv.CreateInvoiceRequest{
		ClientID: f.clientID,
		Date:     "2025-03-14",
		Items: []appinv.InvoiceItemInput{
			{Description: "Développement", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("120.50"), TVA: decimal.NewFromInt(20)},
		},
	}
}

func TestInvoicing_ConcurrentNumbering(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newInvoicingFixture(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.invoices.Create(ctx, f.principal, f.request())
			if err != nil {
				errs <- err
				return
			}
			numbers <- resp.Number
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := make(map[string]bool)
	for n := range numbers {
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
	for i := 1; i <= workers; i++ {
		n := fmt.Sprintf("FAC-25-%04d", i)
		assert.True(t, seen[n], "missing %s", n)
	}
}

func TestInvoicing_DerivedDocuments(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newInvoicingFixture(t)
	ctx := context.Background()

	inv, err := f.invoices.Create(ctx, f.principal, f.request())
	require.NoError(t, err)
	assert.True(t, inv.Totals.TotalTTC.Equal(decimal.RequireFromString("433.80")), inv.Totals.TotalTTC.String())

	quote, err := f.documents.GenerateQuote(ctx, f.principal, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "DEVIS-25-0001", quote.Number)
	assert.True(t, quote.TotalAmount.Equal(inv.TotalAmount), quote.TotalAmount.String())

	note, err := f.documents.GenerateDeliveryNote(ctx, f.principal, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "BL-25-0001", note.Number)

	// deleting the invoice removes its derived documents
	require.NoError(t, f.invoices.Delete(ctx, f.principal, inv.ID))
	_, err = f.documents.GetQuote(ctx, f.principal, quote.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = f.documents.GetDeliveryNote(ctx, f.principal, note.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestInvoicing_OwnerIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newInvoicingFixture(t)
	ctx := context.Background()
	inv, err := f.invoices.Create(ctx, f.principal, f.request())
	require.NoError(t, err)

	other := identity.Principal{UserID: f.db.CreateTestUser(), Role: identity.RoleUser}
	_, err = f.invoices.Get(ctx, other, inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, f.invoices.Delete(ctx, other, inv.ID), shared.ErrNotFound)

	_, err = f.invoices.Get(ctx, f.principal, inv.ID)
	assert.NoError(t, err)
}

func TestInvoiceTemplates_SingleDefault(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	userID := testDB.CreateTestUser()
	repo := persistence.NewGormInvoiceTemplateRepository(testDB.DB)

	first, err := printing.NewInvoiceTemplate(userID, printing.TemplateInput{Name: "Classique"})
	require.NoError(t, err)
	second, err := printing.NewInvoiceTemplate(userID, printing.TemplateInput{Name: "Moderne"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	require.NoError(t, repo.SetDefault(ctx, first))
	require.NoError(t, repo.SetDefault(ctx, second))

	def, err := repo.FindDefault(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	// the partial unique index refuses a second default written behind the repository
	err = testDB.DB.Exec(`UPDATE invoice_templates SET is_default = TRUE WHERE id = ?`, first.ID).Error
	assert.Error(t, err)
}
