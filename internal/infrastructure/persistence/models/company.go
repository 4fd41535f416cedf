package models

import (
	"github.com/facturo/backend/internal/domain/company"
	"github.com/google/uuid"
)

// CompanyProfileModel is the persistence model for company profiles, one per user
type CompanyProfileModel struct {
	AggregateModel
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Address      string    `gorm:"type:text"`
	Phone        string    `gorm:"type:varchar(50)"`
	Email        string    `gorm:"type:varchar(200)"`
	Website      string    `gorm:"type:varchar(500)"`
	TaxID        string    `gorm:"column:tax_id;type:varchar(50)"`
	LogoURL      string    `gorm:"column:logo_url;type:text"`
	SignatureURL string    `gorm:"column:signature_url;type:text"`
	StampURL     string    `gorm:"column:stamp_url;type:text"`
}

// TableName returns the table name for GORM
func (CompanyProfileModel) TableName() string {
	return "company_profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *CompanyProfileModel) ToDomain() *company.Profile {
	p := &company.Profile{
		Details: company.Details{
			Name:    m.Name,
			Address: m.Address,
			Phone:   m.Phone,
			Email:   m.Email,
			Website: m.Website,
			TaxID:   m.TaxID,
		},
		LogoURL:      m.LogoURL,
		SignatureURL: m.SignatureURL,
		StampURL:     m.StampURL,
	}
	p.BaseAggregateRoot = m.ToAggregateRoot()
	p.UserID = m.UserID
	return p
}

// CompanyProfileModelFromDomain creates a persistence model from a domain Profile
func CompanyProfileModelFromDomain(p *company.Profile) *CompanyProfileModel {
	m := &CompanyProfileModel{
		UserID:       p.UserID,
		Name:         p.Name,
		Address:      p.Address,
		Phone:        p.Phone,
		Email:        p.Email,
		Website:      p.Website,
		TaxID:        p.TaxID,
		LogoURL:      p.LogoURL,
		SignatureURL: p.SignatureURL,
		StampURL:     p.StampURL,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
