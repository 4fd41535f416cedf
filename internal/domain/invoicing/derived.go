package invoicing

import (
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind names the three printable document types
type DocumentKind string

const (
	KindInvoice      DocumentKind = "invoice"
	KindQuote        DocumentKind = "quote"
	KindDeliveryNote DocumentKind = "delivery_note"
)

// IsValid checks if the kind is known
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindInvoice, KindQuote, KindDeliveryNote:
		return true
	}
	return false
}

// IsDerived reports whether documents of this kind are derived from an invoice
func (k DocumentKind) IsDerived() bool {
	return k == KindQuote || k == KindDeliveryNote
}

// Family returns the numbering series of the kind
func (k DocumentKind) Family() Family {
	switch k {
	case KindQuote:
		return FamilyQuote
	case KindDeliveryNote:
		return FamilyDeliveryNote
	default:
		return FamilyInvoice
	}
}

// ProvenanceComment is the note stamped on a derived document
func ProvenanceComment(kind DocumentKind, invoiceNumber string) string {
	switch kind {
	case KindQuote:
		return "Devis généré à partir de la facture " + invoiceNumber
	case KindDeliveryNote:
		return "Bon de livraison généré à partir de la facture " + invoiceNumber
	}
	return ""
}

func checkSource(source *Invoice) error {
	if source == nil || source.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_SOURCE", "Source invoice is required")
	}
	if !source.HasNumber() {
		return shared.NewDomainError("INVALID_SOURCE", "Source invoice has no number")
	}
	return nil
}

// Quote is derived from an invoice and carries its total at derivation time
type Quote struct {
	shared.OwnedAggregateRoot
	InvoiceID   uuid.UUID
	Number      string
	Date        time.Time
	TotalAmount decimal.Decimal
	Comments    string
}

// DeriveQuote creates a quote from source without modifying it.
// The quote is dated at, not at the invoice date.
func DeriveQuote(source *Invoice, number string, at time.Time) (*Quote, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quote number cannot be empty")
	}
	q := &Quote{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(source.UserID),
		InvoiceID:          source.ID,
		Number:             number,
		Date:               at,
		TotalAmount:        source.TotalAmount,
		Comments:           ProvenanceComment(KindQuote, source.Number),
	}
	q.AddDomainEvent(NewDerivedDocumentCreatedEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID, q.UserID, source, number))
	return q, nil
}

// DeliveryNote is derived from an invoice
type DeliveryNote struct {
	shared.OwnedAggregateRoot
	InvoiceID uuid.UUID
	Number    string
	Date      time.Time
	Comments  string
}

// DeriveDeliveryNote creates a delivery note from source without modifying it
func DeriveDeliveryNote(source *Invoice, number string, at time.Time) (*DeliveryNote, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Delivery note number cannot be empty")
	}
	n := &DeliveryNote{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(source.UserID),
		InvoiceID:          source.ID,
		Number:             number,
		Date:               at,
		Comments:           ProvenanceComment(KindDeliveryNote, source.Number),
	}
	n.AddDomainEvent(NewDerivedDocumentCreatedEvent(EventTypeDeliveryNoteCreated, AggregateTypeDeliveryNote, n.ID, n.UserID, source, number))
	return n, nil
}
