package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	appinv "github.com/facturo/backend/internal/application/invoicing"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/facturo/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var year2025 = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func seedInvoiceNumber(t *testing.T, db *gorm.DB, userID uuid.UUID, number string) {
	t.Helper()
	m := &models.InvoiceModel{
		CompanyID:   uuid.New(),
		ClientID:    uuid.New(),
		Number:      number,
		Date:        year2025,
		Status:      invoicing.StatusProforma,
		TotalAmount: decimal.NewFromInt(10),
	}
	m.ID = uuid.New()
	m.UserID = userID
	m.CreatedAt = year2025
	m.UpdatedAt = year2025
	m.Version = 1
	require.NoError(t, db.Create(m).Error)
}

func seedQuoteNumber(t *testing.T, db *gorm.DB, userID uuid.UUID, number string) {
	t.Helper()
	m := &models.QuoteModel{InvoiceID: uuid.New(), Number: number, Date: year2025}
	m.ID = uuid.New()
	m.UserID = userID
	m.CreatedAt = year2025
	m.UpdatedAt = year2025
	m.Version = 1
	require.NoError(t, db.Create(m).Error)
}

func TestGormNumberAllocator_SeedsFromExistingNumbers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	userID := uuid.New()

	for _, n := range []string{"FAC-25-0001", "FAC-25-0003", "FAC-24-0099"} {
		seedInvoiceNumber(t, db, userID, n)
	}

	alloc := NewGormNumberAllocator(db)
	number, err := alloc.Allocate(ctx, userID, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0004", number)

	number, err = alloc.Allocate(ctx, userID, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0005", number)
}

func TestGormNumberAllocator_FirstNumberOfYear(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	userID := uuid.New()
	seedInvoiceNumber(t, db, userID, "FAC-24-0099")

	number, err := NewGormNumberAllocator(db).Allocate(context.Background(), userID, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0001", number)
}

func TestGormNumberAllocator_LegacyQuotePrefix(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	userID := uuid.New()
	seedQuoteNumber(t, db, userID, "DEV-25-0007")
	seedQuoteNumber(t, db, userID, "DEVIS-25-0002")

	number, err := NewGormNumberAllocator(db).Allocate(context.Background(), userID, invoicing.FamilyQuote, year2025)
	require.NoError(t, err)
	assert.Equal(t, "DEVIS-25-0008", number)
}

func TestGormNumberAllocator_FamiliesAndUsersAreIndependent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	alloc := NewGormNumberAllocator(db)
	alice, bob := uuid.New(), uuid.New()
	seedInvoiceNumber(t, db, alice, "FAC-25-0041")

	n, err := alloc.Allocate(ctx, alice, invoicing.FamilyDeliveryNote, year2025)
	require.NoError(t, err)
	assert.Equal(t, "BL-25-0001", n)

	n, err = alloc.Allocate(ctx, bob, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0001", n)

	n, err = alloc.Allocate(ctx, alice, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0042", n)
}

func TestGormNumberAllocator_Resync(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	userID := uuid.New()
	alloc := NewGormNumberAllocator(db)

	n, err := alloc.Allocate(ctx, userID, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0001", n)

	// A number issued behind the counter's back, e.g. by an import.
	seedInvoiceNumber(t, db, userID, "FAC-25-0010")

	require.NoError(t, alloc.Resync(ctx, userID, invoicing.FamilyInvoice, year2025))
	n, err = alloc.Allocate(ctx, userID, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0011", n)

	// Resync never lowers the counter
	require.NoError(t, db.Where("number = ?", "FAC-25-0010").Delete(&models.InvoiceModel{}).Error)
	require.NoError(t, alloc.Resync(ctx, userID, invoicing.FamilyInvoice, year2025))
	n, err = alloc.Allocate(ctx, userID, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0012", n)
}

func TestGormNumberAllocator_UnknownFamily(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	_, err := NewGormNumberAllocator(db).Allocate(context.Background(), uuid.New(), invoicing.Family("XYZ"), year2025)
	assert.Error(t, err)
}

func TestGormNumberAllocator_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	userID := uuid.New()
	scope := NewGormTransactionScope(db)

	const callers = 20
	numbers := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
				n, err := repos.Numbers().Allocate(context.Background(), userID, invoicing.FamilyInvoice, year2025)
				if err != nil {
					return err
				}
				numbers <- n
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for n := range numbers {
		assert.False(t, seen[n], "number %s issued twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, callers)
	assert.True(t, seen["FAC-25-0001"])
	assert.True(t, seen["FAC-25-0020"])
}

func TestGormNumberAllocator_LocksCounterRow(t *testing.T) {
	mockDB := testutil.NewSQLMock(t)

	userID := uuid.New()
	mockDB.Mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE .* LIMIT .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "family", "year", "last_value", "updated_at"}).
			AddRow(userID.String(), "FAC", 2025, 41, year2025))
	mockDB.Mock.ExpectExec(`UPDATE "document_sequences" SET .*"last_value"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	number, err := NewGormNumberAllocator(mockDB.DB).Allocate(context.Background(), userID, invoicing.FamilyInvoice, year2025)
	require.NoError(t, err)
	assert.Equal(t, "FAC-25-0042", number)
}
