package printing

import (
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultFontFamily is used when a template does not pick a font
const DefaultFontFamily = "Inter"

const maxCustomCSS = 20000

// InvoiceTemplate is a named styling preset. At most one template per user is
// the default; the repository clears the others before one is set.
type InvoiceTemplate struct {
	shared.OwnedAggregateRoot
	Name         string
	Description  string
	Colors       ColorScheme
	FontFamily   string
	Layout       LayoutType
	LogoPosition LogoPosition
	CustomCSS    string
	IsDefault    bool
}

// TemplateInput carries the editable template fields
type TemplateInput struct {
	Name         string
	Description  string
	Colors       ColorScheme
	FontFamily   string
	Layout       LayoutType
	LogoPosition LogoPosition
	CustomCSS    string
}

func (in TemplateInput) normalize() (TemplateInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Colors = in.Colors.Normalize()
	if in.FontFamily == "" {
		in.FontFamily = DefaultFontFamily
	}
	if in.Layout == "" {
		in.Layout = LayoutClassic
	}
	if in.LogoPosition == "" {
		in.LogoPosition = LogoLeft
	}

	if in.Name == "" {
		return in, shared.NewDomainError("INVALID_TEMPLATE_NAME", "Template name cannot be empty")
	}
	if len(in.Name) > 100 {
		return in, shared.NewDomainError("INVALID_TEMPLATE_NAME", "Template name cannot exceed 100 characters")
	}
	if err := in.Colors.Validate(); err != nil {
		return in, err
	}
	if !IsKnownFont(in.FontFamily) {
		return in, shared.NewDomainError("INVALID_FONT", "Unsupported font family")
	}
	if !in.Layout.IsValid() {
		return in, shared.NewDomainError("INVALID_LAYOUT", "Layout must be classic, modern or minimal")
	}
	if !in.LogoPosition.IsValid() {
		return in, shared.NewDomainError("INVALID_LOGO_POSITION", "Logo position must be left, center or right")
	}
	if len(in.CustomCSS) > maxCustomCSS {
		return in, shared.NewDomainError("INVALID_CSS", "Custom CSS is too long")
	}
	if strings.Contains(strings.ToLower(in.CustomCSS), "</style") {
		return in, shared.NewDomainError("INVALID_CSS", "Custom CSS cannot close the style element")
	}
	return in, nil
}

// NewInvoiceTemplate creates a new non-default template
func NewInvoiceTemplate(userID uuid.UUID, in TemplateInput) (*InvoiceTemplate, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	t := &InvoiceTemplate{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID)}
	t.apply(in)
	return t, nil
}

// DefaultTemplate returns the built-in styling used when the user has none.
// It is never persisted.
func DefaultTemplate() *InvoiceTemplate {
	return &InvoiceTemplate{
		Name:         "Standard",
		Colors:       DefaultColorScheme(),
		FontFamily:   DefaultFontFamily,
		Layout:       LayoutClassic,
		LogoPosition: LogoLeft,
	}
}

// Update replaces the editable fields; the default flag is unchanged
func (t *InvoiceTemplate) Update(in TemplateInput) error {
	in, err := in.normalize()
	if err != nil {
		return err
	}
	t.apply(in)
	t.Touch()
	t.IncrementVersion()
	return nil
}

// SetAsDefault marks this template as the user's default.
// The caller must clear the flag on the user's other templates.
func (t *InvoiceTemplate) SetAsDefault() {
	if t.IsDefault {
		return
	}
	t.IsDefault = true
	t.Touch()
	t.IncrementVersion()
}

// UnsetDefault removes the default flag from this template
func (t *InvoiceTemplate) UnsetDefault() {
	if !t.IsDefault {
		return
	}
	t.IsDefault = false
	t.Touch()
	t.IncrementVersion()
}

func (t *InvoiceTemplate) apply(in TemplateInput) {
	t.Name = in.Name
	t.Description = in.Description
	t.Colors = in.Colors
	t.FontFamily = in.FontFamily
	t.Layout = in.Layout
	t.LogoPosition = in.LogoPosition
	t.CustomCSS = in.CustomCSS
}
