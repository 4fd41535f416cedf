package printing

import (
	"testing"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoiceTemplate(t *testing.T) {
	userID := uuid.New()

	t.Run("applies defaults", func(t *testing.T) {
		tpl, err := NewInvoiceTemplate(userID, TemplateInput{Name: " Bleu "})
		require.NoError(t, err)

		assert.Equal(t, "Bleu", tpl.Name)
		assert.Equal(t, DefaultColorScheme(), tpl.Colors)
		assert.Equal(t, DefaultFontFamily, tpl.FontFamily)
		assert.Equal(t, LayoutClassic, tpl.Layout)
		assert.Equal(t, LogoLeft, tpl.LogoPosition)
		assert.False(t, tpl.IsDefault)
	})

	t.Run("normalizes colors", func(t *testing.T) {
		tpl, err := NewInvoiceTemplate(userID, TemplateInput{
			Name:   "Rouge",
			Colors: ColorScheme{Primary: "#DC2626", Secondary: "#FFF"},
		})
		require.NoError(t, err)
		assert.Equal(t, "#dc2626", tpl.Colors.Primary)
		assert.Equal(t, "#fff", tpl.Colors.Secondary)
		assert.Equal(t, DefaultColorScheme().Accent, tpl.Colors.Accent)
	})

	tests := []struct {
		name string
		in   TemplateInput
		code string
	}{
		{"empty name", TemplateInput{}, "INVALID_TEMPLATE_NAME"},
		{"bad color", TemplateInput{Name: "x", Colors: ColorScheme{Primary: "blue"}}, "INVALID_COLOR"},
		{"bad font", TemplateInput{Name: "x", FontFamily: "Comic Sans"}, "INVALID_FONT"},
		{"bad layout", TemplateInput{Name: "x", Layout: "fancy"}, "INVALID_LAYOUT"},
		{"bad logo position", TemplateInput{Name: "x", LogoPosition: "top"}, "INVALID_LOGO_POSITION"},
		{"css escaping style", TemplateInput{Name: "x", CustomCSS: "a{}</style><script>"}, "INVALID_CSS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInvoiceTemplate(userID, tt.in)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestInvoiceTemplate_Default(t *testing.T) {
	tpl, err := NewInvoiceTemplate(uuid.New(), TemplateInput{Name: "x"})
	require.NoError(t, err)

	tpl.SetAsDefault()
	assert.True(t, tpl.IsDefault)
	assert.Equal(t, 2, tpl.Version)

	tpl.SetAsDefault()
	assert.Equal(t, 2, tpl.Version)

	tpl.UnsetDefault()
	assert.False(t, tpl.IsDefault)
}

func TestFontStack(t *testing.T) {
	assert.Contains(t, FontStack("Georgia"), "serif")
	assert.Equal(t, FontStack(DefaultFontFamily), FontStack("Unknown"))
}

func TestPaperSize_Dimensions(t *testing.T) {
	w, h := PaperSizeA4.Dimensions()
	assert.Equal(t, 210, w)
	assert.Equal(t, 297, h)
	assert.False(t, PaperSize("A3").IsValid())
}
