package shared

import (
	"context"

	"github.com/google/uuid"
)

// Cached list resources
const (
	ResourceClients       = "clients"
	ResourceProducts      = "products"
	ResourceSuppliers     = "suppliers"
	ResourceTemplates     = "templates"
	ResourceInvoices      = "invoices"
	ResourceQuotes        = "quotes"
	ResourceDeliveryNotes = "delivery_notes"
)

// ListCache stores list pages per user and resource. Entries are dropped
// explicitly by the service that mutated the resource.
type ListCache interface {
	// Get loads the page cached under query into dest; ok is false on a miss
	Get(ctx context.Context, userID uuid.UUID, resource, query string, dest any) (ok bool, err error)
	Set(ctx context.Context, userID uuid.UUID, resource, query string, value any) error
	// InvalidateResource drops every cached page of resource for userID
	InvalidateResource(ctx context.Context, userID uuid.UUID, resource string) error
}

// NoopListCache never caches anything
type NoopListCache struct{}

// Get always misses
func (NoopListCache) Get(context.Context, uuid.UUID, string, string, any) (bool, error) {
	return false, nil
}

// Set does nothing
func (NoopListCache) Set(context.Context, uuid.UUID, string, string, any) error { return nil }

// InvalidateResource does nothing
func (NoopListCache) InvalidateResource(context.Context, uuid.UUID, string) error { return nil }
