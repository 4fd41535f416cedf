package printing

import (
	"time"

	"github.com/facturo/backend/internal/domain/company"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// DocumentView is the joined, read-only record handed to the renderer.
// Invoice is the document itself for invoices and the source invoice for
// quotes and delivery notes; client, company and lines are always read
// through it.
type DocumentView struct {
	Kind     invoicing.DocumentKind
	Number   string
	Date     time.Time
	Comments string
	Total    decimal.Decimal // TTC carried by the document
	Invoice  *InvoiceView
}

// InvoiceView is an invoice joined with its client and the issuer profile
type InvoiceView struct {
	Number  string
	Date    time.Time
	Status  invoicing.Status
	Client  PartyView
	Company CompanyView
	Items   []ItemView
	Totals  invoicing.Totals
	Styling invoicing.CustomStyling
}

// PartyView is the addressee block
type PartyView struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CompanyView is the issuer block with its printable assets
type CompanyView struct {
	Name         string
	Address      string
	Phone        string
	Email        string
	Website      string
	TaxID        string
	LogoURL      string
	SignatureURL string
	StampURL     string
}

// ItemView is one printed line
type ItemView struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TVA         decimal.Decimal
	Total       decimal.Decimal
}

// NewInvoiceView joins an invoice with its client and the company profile.
// A nil client or profile leaves the corresponding block empty.
func NewInvoiceView(inv *invoicing.Invoice, client *partner.Client, profile *company.Profile) *InvoiceView {
	v := &InvoiceView{
		Number:  inv.Number,
		Date:    inv.Date,
		Status:  inv.Status,
		Totals:  inv.Totals(),
		Styling: inv.Styling,
		Items:   make([]ItemView, 0, len(inv.Items)),
	}
	if client != nil {
		v.Client = PartyView{Name: client.Name, Email: client.Email, Phone: client.Phone, Address: client.Address}
	}
	if profile != nil {
		v.Company = CompanyView{
			Name:         profile.Name,
			Address:      profile.Address,
			Phone:        profile.Phone,
			Email:        profile.Email,
			Website:      profile.Website,
			TaxID:        profile.TaxID,
			LogoURL:      profile.LogoURL,
			SignatureURL: profile.SignatureURL,
			StampURL:     profile.StampURL,
		}
	}
	for _, item := range inv.Items {
		v.Items = append(v.Items, ItemView{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TVA:         item.TVA,
			Total:       item.Total,
		})
	}
	return v
}

// InvoiceDocument wraps an invoice view as a printable invoice
func InvoiceDocument(v *InvoiceView, comments string) *DocumentView {
	return &DocumentView{
		Kind:     invoicing.KindInvoice,
		Number:   v.Number,
		Date:     v.Date,
		Comments: comments,
		Total:    v.Totals.TTC,
		Invoice:  v,
	}
}

// QuoteDocument builds the printable view of a quote over its source invoice
func QuoteDocument(q *invoicing.Quote, source *InvoiceView) *DocumentView {
	return &DocumentView{
		Kind:     invoicing.KindQuote,
		Number:   q.Number,
		Date:     q.Date,
		Comments: q.Comments,
		Total:    q.TotalAmount,
		Invoice:  source,
	}
}

// DeliveryNoteDocument builds the printable view of a delivery note
func DeliveryNoteDocument(n *invoicing.DeliveryNote, source *InvoiceView) *DocumentView {
	return &DocumentView{
		Kind:     invoicing.KindDeliveryNote,
		Number:   n.Number,
		Date:     n.Date,
		Comments: n.Comments,
		Total:    source.Totals.TTC,
		Invoice:  source,
	}
}

// Title is the heading printed on the document
func (d *DocumentView) Title() string {
	switch d.Kind {
	case invoicing.KindQuote:
		return "DEVIS"
	case invoicing.KindDeliveryNote:
		return "BON DE LIVRAISON"
	default:
		return "FACTURE PROFORMA"
	}
}

// ShowsPrices reports whether unit prices and totals are printed.
// Delivery notes list quantities only.
func (d *DocumentView) ShowsPrices() bool {
	return d.Kind != invoicing.KindDeliveryNote
}

// TemplateStyle is the styling subset of a template the renderer needs
type TemplateStyle struct {
	Colors       ColorScheme
	FontFamily   string
	Layout       LayoutType
	LogoPosition LogoPosition
	CustomCSS    string
}

// DefaultStyle returns the built-in styling
func DefaultStyle() *TemplateStyle {
	return DefaultTemplate().Style()
}

// Style extracts the renderer styling of the template
func (t *InvoiceTemplate) Style() *TemplateStyle {
	return &TemplateStyle{
		Colors:       t.Colors,
		FontFamily:   t.FontFamily,
		Layout:       t.Layout,
		LogoPosition: t.LogoPosition,
		CustomCSS:    t.CustomCSS,
	}
}
