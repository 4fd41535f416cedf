package persistence

import (
	"context"

	appinv "github.com/facturo/backend/internal/application/invoicing"
	"github.com/facturo/backend/internal/domain/invoicing"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Invoices() invoicing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) Quotes() invoicing.QuoteRepository {
	return NewGormQuoteRepository(r.tx)
}

func (r *gormTransactionalRepositories) DeliveryNotes() invoicing.DeliveryNoteRepository {
	return NewGormDeliveryNoteRepository(r.tx)
}

func (r *gormTransactionalRepositories) Numbers() invoicing.NumberAllocator {
	return NewGormNumberAllocator(r.tx)
}

var (
	_ appinv.TransactionScope          = (*GormTransactionScope)(nil)
	_ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
