package partner

import (
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Supplier is a vendor the user buys from. Suppliers are independent of invoices.
type Supplier struct {
	shared.OwnedAggregateRoot
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Website       string
	Address       string
}

// SupplierDetails holds the optional supplier fields
type SupplierDetails struct {
	ContactPerson string
	Website       string
	Contact
}

func (d SupplierDetails) normalize() (SupplierDetails, error) {
	d.Contact = d.Contact.Normalize()
	d.ContactPerson = strings.TrimSpace(d.ContactPerson)
	d.Website = strings.TrimSpace(d.Website)

	if err := d.Contact.Validate(); err != nil {
		return d, err
	}
	if len(d.ContactPerson) > 100 {
		return d, shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if d.Website != "" {
		if err := validateWebsite(d.Website); err != nil {
			return d, err
		}
	}
	return d, nil
}

// NewSupplier creates a new supplier
func NewSupplier(userID uuid.UUID, name string, details SupplierDetails) (*Supplier, error) {
	if err := validateName("INVALID_SUPPLIER_NAME", name); err != nil {
		return nil, err
	}
	details, err := details.normalize()
	if err != nil {
		return nil, err
	}

	supplier := &Supplier{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               strings.TrimSpace(name),
	}
	supplier.apply(details)
	supplier.AddDomainEvent(NewPartnerChangedEvent(EventTypeSupplierCreated, AggregateTypeSupplier, supplier.ID, userID, supplier.Name))
	return supplier, nil
}

// Update replaces the supplier's details
func (s *Supplier) Update(name string, details SupplierDetails) error {
	if err := validateName("INVALID_SUPPLIER_NAME", name); err != nil {
		return err
	}
	details, err := details.normalize()
	if err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.apply(details)
	s.Touch()
	s.IncrementVersion()

	s.AddDomainEvent(NewPartnerChangedEvent(EventTypeSupplierUpdated, AggregateTypeSupplier, s.ID, s.UserID, s.Name))
	return nil
}

func (s *Supplier) apply(d SupplierDetails) {
	s.ContactPerson = d.ContactPerson
	s.Email = d.Email
	s.Phone = d.Phone
	s.Website = d.Website
	s.Address = d.Address
}
