package invoicing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedInvoice(t *testing.T, number string) *Invoice {
	t.Helper()
	inv := createTestInvoice(t, line("Widget", 2, 100, 18), line("Service", 1, 50, 0))
	require.NoError(t, inv.AssignNumber(number))
	return inv
}

func TestDeriveQuote(t *testing.T) {
	source := numberedInvoice(t, "FAC-25-0004")
	snapshot := *source
	generatedAt := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	number := NextNumber(FamilyQuote.String(), nil, generatedAt)
	quote, err := DeriveQuote(source, number, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "DEVIS-25-0001", quote.Number)
	assert.Contains(t, quote.Comments, "FAC-25-0004")
	assert.Equal(t, source.ID, quote.InvoiceID)
	assert.Equal(t, source.UserID, quote.UserID)
	assert.True(t, quote.TotalAmount.Equal(source.TotalAmount))
	assert.Equal(t, generatedAt, quote.Date)
	assert.NotEqual(t, source.Date, quote.Date)
	require.Len(t, quote.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeQuoteCreated, quote.GetDomainEvents()[0].EventType())

	assert.Equal(t, snapshot.Number, source.Number)
	assert.Equal(t, snapshot.Status, source.Status)
	assert.Equal(t, snapshot.Version, source.Version)
	assert.Equal(t, snapshot.UpdatedAt, source.UpdatedAt)
}

func TestDeriveDeliveryNote(t *testing.T) {
	source := numberedInvoice(t, "FAC-25-0004")

	note, err := DeriveDeliveryNote(source, "BL-25-0003", in2025)
	require.NoError(t, err)

	assert.Equal(t, "BL-25-0003", note.Number)
	assert.Contains(t, note.Comments, "FAC-25-0004")
	assert.Equal(t, source.ID, note.InvoiceID)
}

func TestDerive_ManyFromSameInvoice(t *testing.T) {
	source := numberedInvoice(t, "FAC-25-0001")

	q1, err := DeriveQuote(source, "DEVIS-25-0001", in2025)
	require.NoError(t, err)
	q2, err := DeriveQuote(source, "DEVIS-25-0002", in2025)
	require.NoError(t, err)

	assert.NotEqual(t, q1.ID, q2.ID)
	assert.Equal(t, q1.InvoiceID, q2.InvoiceID)
}

func TestDerive_RequiresNumberedSource(t *testing.T) {
	_, err := DeriveQuote(createTestInvoice(t), "DEVIS-25-0001", in2025)
	assert.Error(t, err)

	_, err = DeriveDeliveryNote(nil, "BL-25-0001", in2025)
	assert.Error(t, err)

	_, err = DeriveQuote(numberedInvoice(t, "FAC-25-0001"), "", in2025)
	assert.Error(t, err)
}

func TestDocumentKind(t *testing.T) {
	assert.Equal(t, FamilyInvoice, KindInvoice.Family())
	assert.Equal(t, FamilyQuote, KindQuote.Family())
	assert.Equal(t, FamilyDeliveryNote, KindDeliveryNote.Family())
	assert.True(t, KindQuote.IsDerived())
	assert.False(t, KindInvoice.IsDerived())
	assert.False(t, DocumentKind("receipt").IsValid())
}
