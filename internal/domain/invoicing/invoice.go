package invoicing

import (
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// moneyPlaces is the number of decimals kept on stored amounts
const moneyPlaces = 2

// CustomStyling carries the per-invoice free text printed around the document
type CustomStyling struct {
	PaymentTerms string
	HeaderNote   string
	FooterNote   string
}

// LineInput is an unpersisted invoice line
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TVA         decimal.Decimal // percentage, 0-100
}

// Validate checks the line against the catalog rules
func (l LineInput) Validate() error {
	if strings.TrimSpace(l.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if len(l.Description) > 1000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot exceed 1000 characters")
	}
	if !l.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return ValidateTVA(l.TVA)
}

// ValidateTVA checks that a tax rate is a percentage between 0 and 100
func ValidateTVA(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TVA", "TVA must be between 0 and 100")
	}
	return nil
}

// Net returns quantity x unit price, tax excluded
func (l LineInput) Net() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Tax returns the tax amount of the line
func (l LineInput) Tax() decimal.Decimal {
	return l.Net().Mul(l.TVA).Div(hundred)
}

// Totals holds the three amounts printed on every invoice
type Totals struct {
	HT  decimal.Decimal // tax excluded
	TVA decimal.Decimal // tax
	TTC decimal.Decimal // tax included
}

// ComputeTotals sums a set of lines.
// Each line net is rounded to cents before summing so that the stored line
// totals add up exactly to HT. TVA is rounded once on the sum.
func ComputeTotals(lines []LineInput) Totals {
	ht := decimal.Zero
	tva := decimal.Zero
	for _, l := range lines {
		ht = ht.Add(l.Net().Round(moneyPlaces))
		tva = tva.Add(l.Tax())
	}
	tva = tva.Round(moneyPlaces)
	return Totals{HT: ht, TVA: tva, TTC: ht.Add(tva)}
}

// InvoiceItem is one line of an invoice. Total excludes the line's own tax;
// tax is aggregated at invoice level in TVATotal.
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TVA         decimal.Decimal
	Total       decimal.Decimal
	Position    int
	CreatedAt   time.Time
}

// NewInvoiceItem creates a validated invoice line
func NewInvoiceItem(invoiceID uuid.UUID, position int, line LineInput) (*InvoiceItem, error) {
	if err := line.Validate(); err != nil {
		return nil, err
	}
	return &InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		Description: strings.TrimSpace(line.Description),
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		TVA:         line.TVA,
		Total:       line.Net().Round(moneyPlaces),
		Position:    position,
		CreatedAt:   time.Now(),
	}, nil
}

// Line converts the item back to its input form
func (i InvoiceItem) Line() LineInput {
	return LineInput{Description: i.Description, Quantity: i.Quantity, UnitPrice: i.UnitPrice, TVA: i.TVA}
}

// Invoice is the aggregate root for a proforma invoice and its lines
type Invoice struct {
	shared.OwnedAggregateRoot
	CompanyID   uuid.UUID
	ClientID    uuid.UUID
	Number      string
	Date        time.Time
	Status      Status
	TotalAmount decimal.Decimal // TTC
	TVATotal    decimal.Decimal
	Comments    string
	Styling     CustomStyling
	Items       []InvoiceItem
}

// NewInvoice builds a proforma invoice from its lines. The number is assigned
// later, inside the transaction that persists the invoice.
func NewInvoice(userID, companyID, clientID uuid.UUID, date time.Time, lines []LineInput) (*Invoice, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if companyID == uuid.Nil {
		return nil, shared.ErrCompanyProfileRequired
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Invoice date cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "An invoice needs at least one line")
	}

	inv := &Invoice{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		CompanyID:          companyID,
		ClientID:           clientID,
		Date:               date,
		Status:             StatusProforma,
		Items:              make([]InvoiceItem, 0, len(lines)),
	}
	for i, line := range lines {
		item, err := NewInvoiceItem(inv.ID, i, line)
		if err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, *item)
	}

	totals := ComputeTotals(lines)
	inv.TotalAmount = totals.TTC
	inv.TVATotal = totals.TVA
	return inv, nil
}

// AssignNumber sets the document number. A number is assigned once and never changes.
func (inv *Invoice) AssignNumber(number string) error {
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if inv.Number != "" && inv.Number != number {
		return shared.NewDomainError("NUMBER_IMMUTABLE", "Invoice number cannot be changed once assigned")
	}
	inv.Number = number
	return nil
}

// HasNumber reports whether a number was assigned
func (inv *Invoice) HasNumber() bool {
	return inv.Number != ""
}

// Subtotal returns the sum of line totals (HT)
func (inv *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.Items {
		sum = sum.Add(item.Total)
	}
	return sum
}

// Totals returns the stored HT/TVA/TTC amounts
func (inv *Invoice) Totals() Totals {
	return Totals{HT: inv.TotalAmount.Sub(inv.TVATotal), TVA: inv.TVATotal, TTC: inv.TotalAmount}
}

// CheckTotals verifies total_amount == sum(items.total) + tva_total
func (inv *Invoice) CheckTotals() error {
	if !inv.Subtotal().Add(inv.TVATotal).Equal(inv.TotalAmount) {
		return shared.NewDomainError("TOTALS_MISMATCH", "Invoice total does not match its lines")
	}
	return nil
}

// Update replaces the free-text fields of the invoice
func (inv *Invoice) Update(comments string, styling CustomStyling) {
	inv.Comments = strings.TrimSpace(comments)
	inv.Styling = styling
	inv.Touch()
	inv.IncrementVersion()
}

// ChangeStatus moves the invoice to target. With strict=false any valid status
// may be set; strict=true enforces the lifecycle table.
func (inv *Invoice) ChangeStatus(target Status, strict bool) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown invoice status")
	}
	if target == inv.Status {
		return nil
	}
	if strict && !inv.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", "Cannot move invoice from "+inv.Status.String()+" to "+target.String())
	}

	from := inv.Status
	inv.Status = target
	inv.Touch()
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv, from))
	return nil
}
