package models

import (
	"github.com/facturo/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for products and services
type ProductModel struct {
	OwnedAggregateModel
	Name        string              `gorm:"type:varchar(200);not null"`
	Description string              `gorm:"type:text"`
	Price       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TVA         decimal.Decimal     `gorm:"column:tva;type:decimal(5,2);not null;default:0"`
	Type        catalog.ProductType `gorm:"column:product_type;type:varchar(20);not null;default:'product'"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Name:               m.Name,
		Description:        m.Description,
		Price:              m.Price,
		TVA:                m.TVA,
		Type:               m.Type,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		TVA:         p.TVA,
		Type:        p.Type,
	}
	m.FromDomainOwnedAggregateRoot(p.OwnedAggregateRoot)
	return m
}
