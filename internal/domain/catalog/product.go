package catalog

import (
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType distinguishes goods from services in the catalog
type ProductType string

const (
	ProductTypeProduct ProductType = "product"
	ProductTypeService ProductType = "service"
)

// IsValid checks if the type is a valid ProductType
func (t ProductType) IsValid() bool {
	return t == ProductTypeProduct || t == ProductTypeService
}

var maxTVA = decimal.NewFromInt(100)

// Product is a catalog entry (good or service) that can be copied onto invoice lines
type Product struct {
	shared.OwnedAggregateRoot
	Name        string
	Description string
	Price       decimal.Decimal // unit price, tax excluded
	TVA         decimal.Decimal // percentage, 0-100
	Type        ProductType
}

// ProductInput carries the editable product fields
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	TVA         decimal.Decimal
	Type        ProductType
}

func (in ProductInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	if len(in.Description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	if in.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if in.TVA.IsNegative() || in.TVA.GreaterThan(maxTVA) {
		return shared.NewDomainError("INVALID_TVA", "TVA must be between 0 and 100")
	}
	if !in.Type.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type must be product or service")
	}
	return nil
}

// NewProduct creates a new catalog entry. An empty type defaults to product.
func NewProduct(userID uuid.UUID, in ProductInput) (*Product, error) {
	if in.Type == "" {
		in.Type = ProductTypeProduct
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &Product{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID)}
	p.apply(in)
	p.AddDomainEvent(NewProductChangedEvent(EventTypeProductCreated, p))
	return p, nil
}

// Update replaces the editable fields
func (p *Product) Update(in ProductInput) error {
	if in.Type == "" {
		in.Type = p.Type
	}
	if err := in.validate(); err != nil {
		return err
	}

	p.apply(in)
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductChangedEvent(EventTypeProductUpdated, p))
	return nil
}

// PriceWithTax returns the unit price including TVA
func (p *Product) PriceWithTax() decimal.Decimal {
	return p.Price.Add(p.Price.Mul(p.TVA).Div(maxTVA)).Round(2)
}

// IsService reports whether the entry is a service
func (p *Product) IsService() bool {
	return p.Type == ProductTypeService
}

func (p *Product) apply(in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price
	p.TVA = in.TVA
	p.Type = in.Type
}
