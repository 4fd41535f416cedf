package models

import (
	"github.com/facturo/backend/internal/domain/printing"
)

// InvoiceTemplateModel is the persistence model for invoice templates
type InvoiceTemplateModel struct {
	OwnedAggregateModel
	Name         string                `gorm:"type:varchar(100);not null"`
	Description  string                `gorm:"type:text"`
	ColorScheme  printing.ColorScheme  `gorm:"type:jsonb;serializer:json;not null"`
	FontFamily   string                `gorm:"type:varchar(100);not null"`
	LayoutType   printing.LayoutType   `gorm:"type:varchar(20);not null;default:'classic'"`
	LogoPosition printing.LogoPosition `gorm:"type:varchar(20);not null;default:'left'"`
	CustomCSS    string                `gorm:"column:custom_css;type:text"`
	IsDefault    bool                  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (InvoiceTemplateModel) TableName() string {
	return "invoice_templates"
}

// ToDomain converts the persistence model to a domain InvoiceTemplate
func (m *InvoiceTemplateModel) ToDomain() *printing.InvoiceTemplate {
	return &printing.InvoiceTemplate{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Name:               m.Name,
		Description:        m.Description,
		Colors:             m.ColorScheme,
		FontFamily:         m.FontFamily,
		Layout:             m.LayoutType,
		LogoPosition:       m.LogoPosition,
		CustomCSS:          m.CustomCSS,
		IsDefault:          m.IsDefault,
	}
}

// InvoiceTemplateModelFromDomain creates a persistence model from a domain InvoiceTemplate
func InvoiceTemplateModelFromDomain(t *printing.InvoiceTemplate) *InvoiceTemplateModel {
	m := &InvoiceTemplateModel{
		Name:         t.Name,
		Description:  t.Description,
		ColorScheme:  t.Colors,
		FontFamily:   t.FontFamily,
		LayoutType:   t.Layout,
		LogoPosition: t.LogoPosition,
		CustomCSS:    t.CustomCSS,
		IsDefault:    t.IsDefault,
	}
	m.FromDomainOwnedAggregateRoot(t.OwnedAggregateRoot)
	return m
}
