package models

import (
	"time"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomStylingJSON is the stored shape of invoicing.CustomStyling
type CustomStylingJSON struct {
	PaymentTerms string `json:"payment_terms,omitempty"`
	HeaderNote   string `json:"header_note,omitempty"`
	FooterNote   string `json:"footer_note,omitempty"`
}

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	OwnedAggregateModel
	CompanyID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	ClientID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	Number      string             `gorm:"type:varchar(30);not null"`
	Date        time.Time          `gorm:"type:date;not null"`
	Status      invoicing.Status   `gorm:"type:varchar(20);not null;default:'proforma';index"`
	TotalAmount decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TVATotal    decimal.Decimal    `gorm:"column:tva_total;type:decimal(18,2);not null;default:0"`
	Comments    string             `gorm:"type:text"`
	Styling     CustomStylingJSON  `gorm:"column:custom_styling;type:jsonb;serializer:json"`
	Items       []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	inv := &invoicing.Invoice{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		CompanyID:          m.CompanyID,
		ClientID:           m.ClientID,
		Number:             m.Number,
		Date:               m.Date,
		Status:             m.Status,
		TotalAmount:        m.TotalAmount,
		TVATotal:           m.TVATotal,
		Comments:           m.Comments,
		Styling: invoicing.CustomStyling{
			PaymentTerms: m.Styling.PaymentTerms,
			HeaderNote:   m.Styling.HeaderNote,
			FooterNote:   m.Styling.FooterNote,
		},
		Items: make([]invoicing.InvoiceItem, len(m.Items)),
	}
	for i := range m.Items {
		inv.Items[i] = *m.Items[i].ToDomain()
	}
	return inv
}

// InvoiceModelFromDomain creates a persistence model, items included
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		CompanyID:   inv.CompanyID,
		ClientID:    inv.ClientID,
		Number:      inv.Number,
		Date:        inv.Date,
		Status:      inv.Status,
		TotalAmount: inv.TotalAmount,
		TVATotal:    inv.TVATotal,
		Comments:    inv.Comments,
		Styling: CustomStylingJSON{
			PaymentTerms: inv.Styling.PaymentTerms,
			HeaderNote:   inv.Styling.HeaderNote,
			FooterNote:   inv.Styling.FooterNote,
		},
		Items: make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromDomainOwnedAggregateRoot(inv.OwnedAggregateRoot)
	for i := range inv.Items {
		m.Items[i] = *InvoiceItemModelFromDomain(&inv.Items[i])
	}
	return m
}

// InvoiceItemModel is the persistence model for invoice lines
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TVA         decimal.Decimal `gorm:"column:tva;type:decimal(5,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Position    int             `gorm:"not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem
func (m *InvoiceItemModel) ToDomain() *invoicing.InvoiceItem {
	return &invoicing.InvoiceItem{
		ID:          m.ID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TVA:         m.TVA,
		Total:       m.Total,
		Position:    m.Position,
		CreatedAt:   m.CreatedAt,
	}
}

// InvoiceItemModelFromDomain creates a persistence model from a domain InvoiceItem
func InvoiceItemModelFromDomain(item *invoicing.InvoiceItem) *InvoiceItemModel {
	return &InvoiceItemModel{
		ID:          item.ID,
		InvoiceID:   item.InvoiceID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TVA:         item.TVA,
		Total:       item.Total,
		Position:    item.Position,
		CreatedAt:   item.CreatedAt,
	}
}

// QuoteModel is the persistence model for quotes
type QuoteModel struct {
	OwnedAggregateModel
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number      string          `gorm:"type:varchar(30);not null"`
	Date        time.Time       `gorm:"type:date;not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Comments    string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote
func (m *QuoteModel) ToDomain() *invoicing.Quote {
	return &invoicing.Quote{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		InvoiceID:          m.InvoiceID,
		Number:             m.Number,
		Date:               m.Date,
		TotalAmount:        m.TotalAmount,
		Comments:           m.Comments,
	}
}

// QuoteModelFromDomain creates a persistence model from a domain Quote
func QuoteModelFromDomain(q *invoicing.Quote) *QuoteModel {
	m := &QuoteModel{
		InvoiceID:   q.InvoiceID,
		Number:      q.Number,
		Date:        q.Date,
		TotalAmount: q.TotalAmount,
		Comments:    q.Comments,
	}
	m.FromDomainOwnedAggregateRoot(q.OwnedAggregateRoot)
	return m
}

// DeliveryNoteModel is the persistence model for delivery notes
type DeliveryNoteModel struct {
	OwnedAggregateModel
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Number    string    `gorm:"type:varchar(30);not null"`
	Date      time.Time `gorm:"type:date;not null"`
	Comments  string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DeliveryNoteModel) TableName() string {
	return "delivery_notes"
}

// ToDomain converts the persistence model to a domain DeliveryNote
func (m *DeliveryNoteModel) ToDomain() *invoicing.DeliveryNote {
	return &invoicing.DeliveryNote{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		InvoiceID:          m.InvoiceID,
		Number:             m.Number,
		Date:               m.Date,
		Comments:           m.Comments,
	}
}

// DeliveryNoteModelFromDomain creates a persistence model from a domain DeliveryNote
func DeliveryNoteModelFromDomain(n *invoicing.DeliveryNote) *DeliveryNoteModel {
	m := &DeliveryNoteModel{
		InvoiceID: n.InvoiceID,
		Number:    n.Number,
		Date:      n.Date,
		Comments:  n.Comments,
	}
	m.FromDomainOwnedAggregateRoot(n.OwnedAggregateRoot)
	return m
}

// DocumentSequenceModel holds the last number issued per user, family and year
type DocumentSequenceModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Family    string    `gorm:"type:varchar(10);primaryKey"`
	Year      int       `gorm:"primaryKey"`
	LastValue int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
