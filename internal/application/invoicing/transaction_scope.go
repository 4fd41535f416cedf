package invoicing

import (
	"context"

	"github.com/facturo/backend/internal/domain/invoicing"
)

// TransactionScope provides transactional access to the document repositories.
// All repositories handed to fn share one database transaction, committed
// when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current transaction
type TransactionalRepositories interface {
	Invoices() invoicing.InvoiceRepository
	Quotes() invoicing.QuoteRepository
	DeliveryNotes() invoicing.DeliveryNoteRepository
	// Numbers allocates document numbers; the counter row stays locked until commit
	Numbers() invoicing.NumberAllocator
}
