package models

import (
	"github.com/facturo/backend/internal/domain/partner"
)

// ClientModel is the persistence model for clients
type ClientModel struct {
	OwnedAggregateModel
	Name    string `gorm:"type:varchar(200);not null"`
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
	}
}

// ClientModelFromDomain creates a persistence model from a domain Client
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
	m.FromDomainOwnedAggregateRoot(c.OwnedAggregateRoot)
	return m
}

// SupplierModel is the persistence model for suppliers
type SupplierModel struct {
	OwnedAggregateModel
	Name          string `gorm:"type:varchar(200);not null"`
	ContactPerson string `gorm:"type:varchar(200)"`
	Email         string `gorm:"type:varchar(200)"`
	Phone         string `gorm:"type:varchar(50)"`
	Website       string `gorm:"type:varchar(500)"`
	Address       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Name:               m.Name,
		ContactPerson:      m.ContactPerson,
		Email:              m.Email,
		Phone:              m.Phone,
		Website:            m.Website,
		Address:            m.Address,
	}
}

// SupplierModelFromDomain creates a persistence model from a domain Supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Website:       s.Website,
		Address:       s.Address,
	}
	m.FromDomainOwnedAggregateRoot(s.OwnedAggregateRoot)
	return m
}
