package catalog

import (
	"time"

	"github.com/facturo/backend/internal/domain/catalog"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest creates or replaces a catalog entry
// @Description Request body for creating or replacing a catalog product
type ProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200" example:"Conseil en gestion"`
	Description string          `json:"description" binding:"max=2000" example:"Heure de conseil"`
	Price       decimal.Decimal `json:"price" binding:"dec_gte0" example:"100.00"`
	TVA         decimal.Decimal `json:"tva" binding:"tva" example:"18"`
	Type        string          `json:"product_type" binding:"omitempty,oneof=product service" example:"service"`
}

func (r ProductRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		TVA:         r.TVA,
		Type:        catalog.ProductType(r.Type),
	}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	TVA          decimal.Decimal `json:"tva"`
	PriceWithTax decimal.Decimal `json:"price_with_tax"`
	Type         string          `json:"product_type"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		TVA:          p.TVA,
		PriceWithTax: p.PriceWithTax(),
		Type:         string(p.Type),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// ProductListQuery holds the product list query parameters
type ProductListQuery struct {
	Search   string `form:"search" binding:"max=100"`
	Type     string `form:"product_type" binding:"omitempty,oneof=product service"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the query into a repository filter
func (q ProductListQuery) ToFilter() shared.Filter {
	f := shared.DefaultFilter()
	f.Search = q.Search
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	if q.Type != "" {
		f.Filters["product_type"] = catalog.ProductType(q.Type)
	}
	return f
}
