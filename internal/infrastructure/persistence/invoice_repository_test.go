package persistence

import (
	"context"
	"errors"
	"testing"

	appinv "github.com/facturo/backend/internal/application/invoicing"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/facturo/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, userID uuid.UUID, number string) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(userID, uuid.New(), uuid.New(), year2025, []invoicing.LineInput{
		{Description: "Conseil", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), TVA: decimal.NewFromInt(20)},
		{Description: "Livre", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), TVA: decimal.RequireFromString("5.5")},
	})
	require.NoError(t, err)
	if number != "" {
		require.NoError(t, inv.AssignNumber(number))
	}
	return inv
}

func TestGormInvoiceRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	inv := newTestInvoice(t, userID, "FAC-25-0001")
	require.NoError(t, repo.Create(ctx, inv))

	found, err := repo.FindByIDForUser(ctx, userID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0001", found.Number)
	require.Len(t, found.Items, 2)
	assert.Equal(t, "Conseil", found.Items[0].Description)
	assert.Equal(t, "Livre", found.Items[1].Description)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("292.75")), found.TotalAmount.String())
	assert.NoError(t, found.CheckTotals())

	_, err = repo.FindByIDForUser(ctx, uuid.New(), inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_DuplicateNumber(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, newTestInvoice(t, userID, "FAC-25-0001")))
	err := repo.Create(ctx, newTestInvoice(t, userID, "FAC-25-0001"))
	assert.ErrorIs(t, err, invoicing.ErrDuplicateNumber)

	// Another user may hold the same number
	assert.NoError(t, repo.Create(ctx, newTestInvoice(t, uuid.New(), "FAC-25-0001")))
}

func TestGormTransactionScope_RollsBackHeaderWhenItemsFail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	userID := uuid.New()

	inv := newTestInvoice(t, userID, "")
	inv.Items[1].ID = inv.Items[0].ID // primary key clash on the second line

	err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		number, err := repos.Numbers().Allocate(ctx, userID, invoicing.FamilyInvoice, year2025)
		if err != nil {
			return err
		}
		if err := inv.AssignNumber(number); err != nil {
			return err
		}
		return repos.Invoices().Create(ctx, inv)
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.InvoiceModel{}).Count(&count).Error)
	assert.Zero(t, count, "no invoice header may survive")
	require.NoError(t, db.Model(&models.InvoiceItemModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.DocumentSequenceModel{}).Count(&count).Error)
	assert.Zero(t, count, "counter advance is rolled back too")
}

func TestGormTransactionScope_Commits(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	userID := uuid.New()
	sentinel := errors.New("stop")

	inv := newTestInvoice(t, userID, "FAC-25-0001")
	require.NoError(t, scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		return repos.Invoices().Create(ctx, inv)
	}))

	err := scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		if err := repos.Invoices().Create(ctx, newTestInvoice(t, userID, "FAC-25-0002")); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	numbers, err := NewGormInvoiceRepository(db).ListNumbers(ctx, userID, "FAC")
	require.NoError(t, err)
	assert.Equal(t, []string{"FAC-25-0001"}, numbers)
}

func TestGormInvoiceRepository_Save(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	inv := newTestInvoice(t, userID, "FAC-25-0001")
	require.NoError(t, repo.Create(ctx, inv))

	require.NoError(t, inv.ChangeStatus(invoicing.StatusPaid, false))
	inv.Update("Payée par virement", invoicing.CustomStyling{PaymentTerms: "30 jours"})
	require.NoError(t, repo.Save(ctx, inv))

	found, err := repo.FindByIDForUser(ctx, userID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicing.StatusPaid, found.Status)
	assert.Equal(t, "Payée par virement", found.Comments)
	assert.Equal(t, "30 jours", found.Styling.PaymentTerms)
	assert.Equal(t, "FAC-25-0001", found.Number)
	assert.Len(t, found.Items, 2)

	other := *inv
	other.UserID = uuid.New()
	assert.ErrorIs(t, repo.Save(ctx, &other), shared.ErrNotFound)
}

func TestGormInvoiceRepository_ListFilters(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	first := newTestInvoice(t, userID, "FAC-25-0001")
	second := newTestInvoice(t, userID, "FAC-25-0002")
	require.NoError(t, second.ChangeStatus(invoicing.StatusFinal, false))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, newTestInvoice(t, uuid.New(), "FAC-25-0003")))

	all, err := repo.FindAllForUser(ctx, userID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = invoicing.StatusFinal
	final, err := repo.FindAllForUser(ctx, userID, filter)
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, "FAC-25-0002", final[0].Number)

	filter = shared.DefaultFilter()
	filter.Search = "0001"
	count, err := repo.CountForUser(ctx, userID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	filter = shared.DefaultFilter()
	filter.Search = "%"
	count, err = repo.CountForUser(ctx, userID, filter)
	require.NoError(t, err)
	assert.Zero(t, count, "LIKE wildcards are matched literally")
}

func TestGormInvoiceRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	quotes := NewGormQuoteRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	inv := newTestInvoice(t, userID, "FAC-25-0004")
	require.NoError(t, repo.Create(ctx, inv))
	quote, err := invoicing.DeriveQuote(inv, "DEVIS-25-0001", year2025)
	require.NoError(t, err)
	require.NoError(t, quotes.Create(ctx, quote))

	assert.ErrorIs(t, repo.DeleteForUser(ctx, uuid.New(), inv.ID), shared.ErrNotFound)
	require.NoError(t, repo.DeleteForUser(ctx, userID, inv.ID))

	var count int64
	require.NoError(t, db.Model(&models.InvoiceItemModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.QuoteModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGormQuoteRepository_RoundTrip(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	userID := uuid.New()

	inv := newTestInvoice(t, userID, "FAC-25-0004")
	quote, err := invoicing.DeriveQuote(inv, "DEVIS-25-0001", year2025)
	require.NoError(t, err)

	repo := NewGormQuoteRepository(db)
	require.NoError(t, repo.Create(ctx, quote))

	found, err := repo.FindByIDForUser(ctx, userID, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "DEVIS-25-0001", found.Number)
	assert.Contains(t, found.Comments, "FAC-25-0004")
	assert.True(t, found.TotalAmount.Equal(inv.TotalAmount))

	dup, err := invoicing.DeriveQuote(inv, "DEVIS-25-0001", year2025)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), invoicing.ErrDuplicateNumber)

	filter := shared.DefaultFilter()
	filter.Filters["invoice_id"] = inv.ID
	list, err := repo.FindAllForUser(ctx, userID, filter)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
