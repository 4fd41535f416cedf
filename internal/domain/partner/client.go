package partner

import (
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Client is a customer billed by the user.
// Deleting a client cascades to its invoices at the database level.
type Client struct {
	shared.OwnedAggregateRoot
	Name    string
	Email   string
	Phone   string
	Address string
}

// NewClient creates a new client
func NewClient(userID uuid.UUID, name string, contact Contact) (*Client, error) {
	if err := validateName("INVALID_CLIENT_NAME", name); err != nil {
		return nil, err
	}
	contact = contact.Normalize()
	if err := contact.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               strings.TrimSpace(name),
		Email:              contact.Email,
		Phone:              contact.Phone,
		Address:            contact.Address,
	}
	client.AddDomainEvent(NewPartnerChangedEvent(EventTypeClientCreated, AggregateTypeClient, client.ID, userID, client.Name))
	return client, nil
}

// Update replaces the client's details
func (c *Client) Update(name string, contact Contact) error {
	if err := validateName("INVALID_CLIENT_NAME", name); err != nil {
		return err
	}
	contact = contact.Normalize()
	if err := contact.Validate(); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Email = contact.Email
	c.Phone = contact.Phone
	c.Address = contact.Address
	c.Touch()
	c.IncrementVersion()

	c.AddDomainEvent(NewPartnerChangedEvent(EventTypeClientUpdated, AggregateTypeClient, c.ID, c.UserID, c.Name))
	return nil
}
