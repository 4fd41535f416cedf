package printing

import (
	"time"

	"github.com/facturo/backend/internal/domain/printing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// =============================================================================
// Template DTOs
// =============================================================================

// ColorSchemeDTO is the color triple of a template
// @Description Template colors as hex codes
type ColorSchemeDTO struct {
	Primary   string `json:"primary" binding:"omitempty,hexcolor" example:"#1F3A93"`
	Secondary string `json:"secondary" binding:"omitempty,hexcolor" example:"#4A5568"`
	Accent    string `json:"accent" binding:"omitempty,hexcolor" example:"#E53E3E"`
}

// TemplateRequest creates or replaces an invoice template
// @Description Request body for creating or replacing an invoice template
type TemplateRequest struct {
	Name         string         `json:"name" binding:"required,min=1,max=100" example:"Classique bleu"`
	Description  string         `json:"description" binding:"max=500" example:"Entête bleue, logo à gauche"`
	ColorScheme  ColorSchemeDTO `json:"color_scheme"`
	FontFamily   string         `json:"font_family" binding:"max=50" example:"Inter"`
	Layout       string         `json:"layout" binding:"omitempty,oneof=classic modern minimal" example:"modern"`
	LogoPosition string         `json:"logo_position" binding:"omitempty,oneof=left center right" example:"left"`
	CustomCSS    string         `json:"custom_css" example:".totals { font-weight: 600; }"`
}

func (r TemplateRequest) input() printing.TemplateInput {
	return printing.TemplateInput{
		Name:        r.Name,
		Description: r.Description,
		Colors: printing.ColorScheme{
			Primary:   r.ColorScheme.Primary,
			Secondary: r.ColorScheme.Secondary,
			Accent:    r.ColorScheme.Accent,
		},
		FontFamily:   r.FontFamily,
		Layout:       printing.LayoutType(r.Layout),
		LogoPosition: printing.LogoPosition(r.LogoPosition),
		CustomCSS:    r.CustomCSS,
	}
}

// TemplateResponse represents an invoice template in API responses
type TemplateResponse struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	ColorScheme  ColorSchemeDTO `json:"color_scheme"`
	FontFamily   string         `json:"font_family"`
	Layout       string         `json:"layout"`
	LogoPosition string         `json:"logo_position"`
	CustomCSS    string         `json:"custom_css"`
	IsDefault    bool           `json:"is_default"`
	BuiltIn      bool           `json:"built_in,omitempty"`
	Version      int            `json:"version"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ToTemplateResponse converts a template to its response.
// The built-in template has no ID.
func ToTemplateResponse(t *printing.InvoiceTemplate) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ColorScheme: ColorSchemeDTO{
			Primary:   t.Colors.Primary,
			Secondary: t.Colors.Secondary,
			Accent:    t.Colors.Accent,
		},
		FontFamily:   t.FontFamily,
		Layout:       string(t.Layout),
		LogoPosition: string(t.LogoPosition),
		CustomCSS:    t.CustomCSS,
		IsDefault:    t.IsDefault,
		BuiltIn:      t.ID == uuid.Nil,
		Version:      t.Version,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ToTemplateResponses converts a slice of templates
func ToTemplateResponses(templates []printing.InvoiceTemplate) []TemplateResponse {
	out := make([]TemplateResponse, len(templates))
	for i := range templates {
		out[i] = ToTemplateResponse(&templates[i])
	}
	return out
}

// TemplateListQuery holds the template list parameters
type TemplateListQuery struct {
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToFilter converts the query into a repository filter
func (q TemplateListQuery) ToFilter() shared.Filter {
	f := shared.DefaultFilter()
	f.Search = q.Search
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	return f
}

// =============================================================================
// Export DTOs
// =============================================================================

// HTMLDocument is a rendered document
type HTMLDocument struct {
	Number string
	HTML   string
}

// PDFDocument is an exported document ready to be served as an attachment
type PDFDocument struct {
	Filename string
	Content  []byte
	Pages    int
}
