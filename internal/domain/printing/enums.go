package printing

// LayoutType selects the overall document layout
type LayoutType string

const (
	LayoutClassic LayoutType = "classic"
	LayoutModern  LayoutType = "modern"
	LayoutMinimal LayoutType = "minimal"
)

// IsValid checks if the LayoutType is a valid value
func (l LayoutType) IsValid() bool {
	switch l {
	case LayoutClassic, LayoutModern, LayoutMinimal:
		return true
	}
	return false
}

// LogoPosition places the company logo in the document header
type LogoPosition string

const (
	LogoLeft   LogoPosition = "left"
	LogoCenter LogoPosition = "center"
	LogoRight  LogoPosition = "right"
)

// IsValid checks if the LogoPosition is a valid value
func (p LogoPosition) IsValid() bool {
	switch p {
	case LogoLeft, LogoCenter, LogoRight:
		return true
	}
	return false
}

// PaperSize represents the paper size for PDF export
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"     // 210mm x 297mm
	PaperSizeA5     PaperSize = "A5"     // 148mm x 210mm
	PaperSizeLetter PaperSize = "LETTER" // 216mm x 279mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeLetter:
		return true
	}
	return false
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	case PaperSizeLetter:
		return 216, 279
	default:
		return 210, 297
	}
}

// allowedFonts lists the font stacks a template may select
var allowedFonts = map[string]string{
	"Inter":           "'Inter', 'Helvetica Neue', Arial, sans-serif",
	"Roboto":          "'Roboto', Arial, sans-serif",
	"Open Sans":       "'Open Sans', Arial, sans-serif",
	"Lato":            "'Lato', Arial, sans-serif",
	"Georgia":         "Georgia, 'Times New Roman', serif",
	"Times New Roman": "'Times New Roman', Times, serif",
	"Courier New":     "'Courier New', Courier, monospace",
}

// FontStack returns the CSS font-family value for a font name.
// Unknown names fall back to the Inter stack.
func FontStack(font string) string {
	if stack, ok := allowedFonts[font]; ok {
		return stack
	}
	return allowedFonts[DefaultFontFamily]
}

// IsKnownFont reports whether font is one of the selectable fonts
func IsKnownFont(font string) bool {
	_, ok := allowedFonts[font]
	return ok
}
