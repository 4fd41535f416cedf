package printing

import (
	"regexp"
	"strings"

	"github.com/facturo/backend/internal/domain/shared"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ColorScheme holds the three template colors as CSS hex values
type ColorScheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// DefaultColorScheme returns the built-in color scheme
func DefaultColorScheme() ColorScheme {
	return ColorScheme{Primary: "#1e40af", Secondary: "#64748b", Accent: "#f59e0b"}
}

// Validate checks that every color is a hex value
func (c ColorScheme) Validate() error {
	for _, color := range []string{c.Primary, c.Secondary, c.Accent} {
		if !hexColorRegex.MatchString(color) {
			return shared.NewDomainError("INVALID_COLOR", "Colors must be hex values such as #1e40af")
		}
	}
	return nil
}

// Normalize lower-cases the colors and fills missing ones with defaults
func (c ColorScheme) Normalize() ColorScheme {
	def := DefaultColorScheme()
	pick := func(v, fallback string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return fallback
		}
		return v
	}
	return ColorScheme{
		Primary:   pick(c.Primary, def.Primary),
		Secondary: pick(c.Secondary, def.Secondary),
		Accent:    pick(c.Accent, def.Accent),
	}
}

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left int) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	}
	if top > 100 || right > 100 || bottom > 100 || left > 100 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 100mm")
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// DefaultMargins returns the default page margins
func DefaultMargins() Margins {
	return Margins{Top: 15, Right: 12, Bottom: 15, Left: 12}
}
