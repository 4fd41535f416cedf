package printing

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

const documentTemplate = "templates/document.html"

// nbsp separates thousands and the currency sign so amounts never wrap
const nbsp = "\u00a0"

// TemplateEngine renders documents to HTML. It holds no clock and does no
// I/O once built, so the same document and style always yield the same bytes.
type TemplateEngine struct {
	tmpl *template.Template
}

// NewTemplateEngine parses the embedded document template
func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl, err := template.New("document.html").Funcs(funcMap()).ParseFS(templateFS, documentTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse document template", err)
	}
	return &TemplateEngine{tmpl: tmpl}, nil
}

// MustNewTemplateEngine is NewTemplateEngine for package initialisation and tests
func MustNewTemplateEngine() *TemplateEngine {
	e, err := NewTemplateEngine()
	if err != nil {
		panic(err)
	}
	return e
}

type documentData struct {
	Doc          *printing.DocumentView
	Derived      bool
	Prices       bool
	Layout       printing.LayoutType
	LogoPosition printing.LogoPosition
	Font         template.CSS
	Primary      template.CSS
	Secondary    template.CSS
	Accent       template.CSS
	CustomCSS    template.CSS
}

// Render produces the HTML of doc styled by style. A nil style uses the
// built-in defaults.
func (e *TemplateEngine) Render(doc *printing.DocumentView, style *printing.TemplateStyle) (string, error) {
	if doc == nil || doc.Invoice == nil {
		return "", NewRenderError(ErrCodeInvalidDocument, "document has no invoice data", nil)
	}
	if !doc.Kind.IsValid() {
		return "", NewRenderError(ErrCodeInvalidDocument, "unknown document kind: "+string(doc.Kind), nil)
	}
	if style == nil {
		style = printing.DefaultStyle()
	}
	colors := style.Colors.Normalize()
	layout := style.Layout
	if !layout.IsValid() {
		layout = printing.LayoutClassic
	}
	logo := style.LogoPosition
	if !logo.IsValid() {
		logo = printing.LogoLeft
	}

	// Colors, font stacks and custom CSS are validated on the template
	// aggregate before they ever reach here.
	data := documentData{
		Doc:          doc,
		Derived:      doc.Kind.IsDerived(),
		Prices:       doc.ShowsPrices(),
		Layout:       layout,
		LogoPosition: logo,
		Font:         template.CSS(printing.FontStack(style.FontFamily)),
		Primary:      template.CSS(colors.Primary),
		Secondary:    template.CSS(colors.Secondary),
		Accent:       template.CSS(colors.Accent),
		CustomCSS:    template.CSS(style.CustomCSS),
	}

	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, "document.html", data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute document template", err)
	}
	return buf.String(), nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"money":    formatMoney,
		"quantity": formatQuantity,
		"rate":     formatRate,
		"date":     formatDate,
		"title":    titleCase,
	}
}

// formatMoney formats an amount the French way with a euro suffix.
// Example: 1234.5 -> "1 234,50 €"
func formatMoney(d decimal.Decimal) string {
	return formatMoneyRaw(d) + nbsp + "€"
}

// formatMoneyRaw formats an amount with two decimals and grouped thousands
func formatMoneyRaw(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteString(nbsp)
		}
		result.WriteRune(c)
	}

	return sign + result.String() + "," + decPart
}

// formatQuantity drops trailing zeros. Example: 2.50 -> "2,5"
func formatQuantity(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

// formatRate prints a TVA percentage. Example: 5.5 -> "5,5 %"
func formatRate(d decimal.Decimal) string {
	return formatQuantity(d) + nbsp + "%"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// titleCase upper-cases the first letter of each word and keeps the rest,
// so "jean dupont" prints "Jean Dupont" and "ACME sarl" prints "ACME Sarl".
// Casers carry state and are built per call.
func titleCase(s string) string {
	return cases.Title(language.French, cases.NoLower).String(s)
}
