package invoicing

import (
	"time"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of document dates
const DateLayout = "2006-01-02"

// =============================================================================
// Invoice DTOs
// =============================================================================

// InvoiceItemInput is one line of a create or preview request
// @Description One invoice line; its total excludes tax
type InvoiceItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=1000" example:"Conseil"`
	Quantity    decimal.Decimal `json:"quantity" binding:"dec_gt0" example:"2"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"dec_gte0" example:"100.00"`
	TVA         decimal.Decimal `json:"tva" binding:"tva" example:"18"`
}

// Line converts the input into a domain line
func (i InvoiceItemInput) Line() invoicing.LineInput {
	return invoicing.LineInput{
		Description: i.Description,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		TVA:         i.TVA,
	}
}

// CreateInvoiceRequest represents a request to create an invoice
// @Description Request body for issuing an invoice
type CreateInvoiceRequest struct {
	ClientID     uuid.UUID          `json:"client_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Date         string             `json:"date" binding:"required,datetime=2006-01-02" example:"2025-06-10"`
	Comments     string             `json:"comments" binding:"max=2000" example:"Merci pour votre confiance"`
	PaymentTerms string             `json:"payment_terms" binding:"max=500" example:"30 jours fin de mois"`
	HeaderNote   string             `json:"header_note" binding:"max=1000" example:"Mission de conseil juin 2025"`
	FooterNote   string             `json:"footer_note" binding:"max=1000" example:"Pénalités de retard : 3 fois le taux légal"`
	Items        []InvoiceItemInput `json:"items" binding:"required,min=1,max=200,dive"`
}

// UpdateInvoiceRequest replaces the free-text fields of an invoice
// @Description Request body for replacing the free-text fields of an invoice
type UpdateInvoiceRequest struct {
	Comments     string `json:"comments" binding:"max=2000" example:"Merci pour votre confiance"`
	PaymentTerms string `json:"payment_terms" binding:"max=500" example:"45 jours"`
	HeaderNote   string `json:"header_note" binding:"max=1000" example:"Mission de conseil juin 2025"`
	FooterNote   string `json:"footer_note" binding:"max=1000" example:"Escompte 2 % à 8 jours"`
}

// UpdateStatusRequest represents a status change
// @Description Request body for changing the status of an invoice
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=proforma validated final paid cancelled" example:"validated"`
}

// PreviewTotalsRequest asks for the totals of unsaved lines
// @Description Request body for computing totals of unsaved lines
type PreviewTotalsRequest struct {
	Items []InvoiceItemInput `json:"items" binding:"required,min=1,max=200,dive"`
}

// TotalsResponse carries the three printed amounts
type TotalsResponse struct {
	TotalHT  decimal.Decimal `json:"total_ht"`
	TotalTVA decimal.Decimal `json:"total_tva"`
	TotalTTC decimal.Decimal `json:"total_ttc"`
}

// ToTotalsResponse converts domain totals
func ToTotalsResponse(t invoicing.Totals) TotalsResponse {
	return TotalsResponse{TotalHT: t.HT, TotalTVA: t.TVA, TotalTTC: t.TTC}
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TVA         decimal.Decimal `json:"tva"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID           uuid.UUID             `json:"id"`
	Number       string                `json:"number"`
	ClientID     uuid.UUID             `json:"client_id"`
	CompanyID    uuid.UUID             `json:"company_id"`
	Date         string                `json:"date"`
	Status       string                `json:"status"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	TVATotal     decimal.Decimal       `json:"tva_total"`
	Totals       TotalsResponse        `json:"totals"`
	Comments     string                `json:"comments,omitempty"`
	PaymentTerms string                `json:"payment_terms,omitempty"`
	HeaderNote   string                `json:"header_note,omitempty"`
	FooterNote   string                `json:"footer_note,omitempty"`
	Items        []InvoiceItemResponse `json:"items,omitempty"`
	Version      int                   `json:"version"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice to a response
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TVA:         item.TVA,
			Total:       item.Total,
		}
	}
	return InvoiceResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		ClientID:     inv.ClientID,
		CompanyID:    inv.CompanyID,
		Date:         inv.Date.Format(DateLayout),
		Status:       inv.Status.String(),
		TotalAmount:  inv.TotalAmount,
		TVATotal:     inv.TVATotal,
		Totals:       ToTotalsResponse(inv.Totals()),
		Comments:     inv.Comments,
		PaymentTerms: inv.Styling.PaymentTerms,
		HeaderNote:   inv.Styling.HeaderNote,
		FooterNote:   inv.Styling.FooterNote,
		Items:        items,
		Version:      inv.Version,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

// ToInvoiceResponses converts a list of invoices
func ToInvoiceResponses(invoices []invoicing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return out
}

// InvoiceListFilter holds the list query parameters
type InvoiceListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=proforma validated final paid cancelled"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =============================================================================
// Derived document DTOs
// =============================================================================

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID          uuid.UUID       `json:"id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	Number      string          `json:"number"`
	Date        string          `json:"date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Comments    string          `json:"comments"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToQuoteResponse converts a domain quote to a response
func ToQuoteResponse(q *invoicing.Quote) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID,
		InvoiceID:   q.InvoiceID,
		Number:      q.Number,
		Date:        q.Date.Format(DateLayout),
		TotalAmount: q.TotalAmount,
		Comments:    q.Comments,
		CreatedAt:   q.CreatedAt,
	}
}

// DeliveryNoteResponse represents a delivery note in API responses
type DeliveryNoteResponse struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
	Date      string    `json:"date"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDeliveryNoteResponse converts a domain delivery note to a response
func ToDeliveryNoteResponse(n *invoicing.DeliveryNote) DeliveryNoteResponse {
	return DeliveryNoteResponse{
		ID:        n.ID,
		InvoiceID: n.InvoiceID,
		Number:    n.Number,
		Date:      n.Date.Format(DateLayout),
		Comments:  n.Comments,
		CreatedAt: n.CreatedAt,
	}
}

// DerivedListFilter holds the list query parameters of quotes and delivery notes
type DerivedListFilter struct {
	Search    string `form:"search"`
	InvoiceID string `form:"invoice_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the query into a repository filter
func (f InvoiceListFilter) ToFilter() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.Status != "" {
		filter.Filters["status"] = invoicing.Status(f.Status)
	}
	if id, err := uuid.Parse(f.ClientID); err == nil {
		filter.Filters["client_id"] = id
	}
	return filter.Normalize()
}

// ToFilter converts the query into a repository filter
func (f DerivedListFilter) ToFilter() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if id, err := uuid.Parse(f.InvoiceID); err == nil {
		filter.Filters["invoice_id"] = id
	}
	return filter.Normalize()
}
