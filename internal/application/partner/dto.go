package partner

import (
	"time"

	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ListQuery holds the list query parameters shared by clients and suppliers
type ListQuery struct {
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the query into a repository filter
func (q ListQuery) ToFilter() shared.Filter {
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
	return f
}

// =============================================================================
// Client DTOs
// =============================================================================

// ClientRequest creates or replaces a client
// @Description Request body for creating or replacing a client
type ClientRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200" example:"Jean Dupont"`
	Email   string `json:"email" binding:"omitempty,email,max=200" example:"jean@dupont.fr"`
	Phone   string `json:"phone" binding:"max=50" example:"+33 6 12 34 56 78"`
	Address string `json:"address" binding:"max=500" example:"3 avenue Foch, 69006 Lyon"`
}

func (r ClientRequest) contact() partner.Contact {
	return partner.Contact{Email: r.Email, Phone: r.Phone, Address: r.Address}
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToClientResponse converts a domain client to a response
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToClientResponses converts a slice of clients
func ToClientResponses(clients []partner.Client) []ClientResponse {
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = ToClientResponse(&clients[i])
	}
	return out
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// SupplierRequest creates or replaces a supplier
// @Description Request body for creating or replacing a supplier
type SupplierRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200" example:"Papeterie Centrale"`
	ContactPerson string `json:"contact_person" binding:"max=200" example:"Claire Petit"`
	Email         string `json:"email" binding:"omitempty,email,max=200" example:"commandes@papeterie-centrale.fr"`
	Phone         string `json:"phone" binding:"max=50" example:"+33 4 78 00 11 22"`
	Website       string `json:"website" binding:"omitempty,url,max=300" example:"https://papeterie-centrale.fr"`
	Address       string `json:"address" binding:"max=500" example:"8 quai Perrache, 69002 Lyon"`
}

func (r SupplierRequest) details() partner.SupplierDetails {
	return partner.SupplierDetails{
		ContactPerson: r.ContactPerson,
		Website:       r.Website,
		Contact:       partner.Contact{Email: r.Email, Phone: r.Phone, Address: r.Address},
	}
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Website       string    `json:"website"`
	Address       string    `json:"address"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToSupplierResponse converts a domain supplier to a response
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Email:         s.Email,
		Phone:         s.Phone,
		Website:       s.Website,
		Address:       s.Address,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of suppliers
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out
}
