package company

import (
	"time"

	"github.com/facturo/backend/internal/domain/company"
	"github.com/google/uuid"
)

// ProfileRequest creates or replaces the company profile
// @Description Request body for creating or replacing the company profile
type ProfileRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200" example:"Atelier Martin SARL"`
	Address string `json:"address" binding:"max=500" example:"12 rue de la Paix, 75002 Paris"`
	Phone   string `json:"phone" binding:"max=50" example:"+33 1 23 45 67 89"`
	Email   string `json:"email" binding:"omitempty,email,max=200" example:"contact@atelier-martin.fr"`
	Website string `json:"website" binding:"omitempty,url,max=200" example:"https://atelier-martin.fr"`
	TaxID   string `json:"tax_id" binding:"max=50" example:"FR40123456789"`
}

func (r ProfileRequest) details() company.Details {
	return company.Details{
		Name:    r.Name,
		Address: r.Address,
		Phone:   r.Phone,
		Email:   r.Email,
		Website: r.Website,
		TaxID:   r.TaxID,
	}
}

// ProfileResponse represents the company profile in API responses
type ProfileResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Website      string    `json:"website"`
	TaxID        string    `json:"tax_id"`
	LogoURL      string    `json:"logo_url"`
	SignatureURL string    `json:"signature_url"`
	StampURL     string    `json:"stamp_url"`
	Version      int       `json:"version"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToProfileResponse converts a profile to its response
func ToProfileResponse(p *company.Profile) ProfileResponse {
	return ProfileResponse{
		ID:           p.ID,
		Name:         p.Name,
		Address:      p.Address,
		Phone:        p.Phone,
		Email:        p.Email,
		Website:      p.Website,
		TaxID:        p.TaxID,
		LogoURL:      p.LogoURL,
		SignatureURL: p.SignatureURL,
		StampURL:     p.StampURL,
		Version:      p.Version,
		UpdatedAt:    p.UpdatedAt,
	}
}
