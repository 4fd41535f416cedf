package printing

import (
	"context"
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/printing"
	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromedpRenderer_Defaults(t *testing.T) {
	r := NewChromedpRenderer(&ChromedpConfig{RemoteURL: "ws://127.0.0.1:1/devtools/browser/x"})
	defer r.Close()

	assert.Equal(t, defaultChromeTimeout, r.config.DefaultTimeout)
	assert.Equal(t, defaultMaxConcurrent, cap(r.slots))
	assert.Equal(t, defaultScale, r.config.Scale)
}

func TestChromedpConfigFrom(t *testing.T) {
	cfg := ChromedpConfigFrom(config.PDFConfig{
		RemoteURL:     "ws://chrome:9222",
		ExecPath:      "/usr/bin/chromium",
		Timeout:       5 * time.Second,
		MaxConcurrent: 2,
	}, nil)

	assert.Equal(t, "ws://chrome:9222", cfg.RemoteURL)
	assert.Equal(t, "/usr/bin/chromium", cfg.ExecPath)
	assert.Equal(t, 5*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, 2, cfg.MaxConcurrent)
	assert.True(t, cfg.NoSandbox)
}

func TestBuildPrintParams_A4(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	params := r.buildPrintParams(&RenderRequest{
		HTML:      "<html>test</html>",
		PaperSize: printing.PaperSizeA4,
		Margins:   printing.DefaultMargins(),
	})

	assert.InDelta(t, mmToInches(210), params.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(297), params.paperHeight, 0.01)
	assert.True(t, params.printBackground)
	assert.Equal(t, 1.0, params.scale)
}

func TestBuildPrintParams_A5AndLetter(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	a5 := r.buildPrintParams(&RenderRequest{PaperSize: printing.PaperSizeA5})
	assert.InDelta(t, mmToInches(148), a5.paperWidth, 0.01)
	assert.InDelta(t, mmToInches(210), a5.paperHeight, 0.01)

	letter := r.buildPrintParams(&RenderRequest{PaperSize: printing.PaperSizeLetter})
	assert.InDelta(t, mmToInches(216), letter.paperWidth, 0.01)
}

func TestBuildPrintParams_WithMargins(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{Scale: 1.0}}

	margins, err := printing.NewMargins(10, 15, 20, 25)
	require.NoError(t, err)
	params := r.buildPrintParams(&RenderRequest{PaperSize: printing.PaperSizeA4, Margins: margins})

	assert.InDelta(t, mmToInches(10), params.marginTop, 0.001)
	assert.InDelta(t, mmToInches(15), params.marginRight, 0.001)
	assert.InDelta(t, mmToInches(20), params.marginBottom, 0.001)
	assert.InDelta(t, mmToInches(25), params.marginLeft, 0.001)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name string
		req  *RenderRequest
		code string
	}{
		{name: "nil request", req: nil, code: ErrCodeInvalidHTML},
		{name: "blank HTML", req: &RenderRequest{HTML: " \n\t", PaperSize: printing.PaperSizeA4}, code: ErrCodeInvalidHTML},
		{name: "unknown paper", req: &RenderRequest{HTML: "<p>x</p>", PaperSize: "B5"}, code: ErrCodeInvalidPaperSize},
		{name: "valid", req: &RenderRequest{HTML: "<p>x</p>", PaperSize: printing.PaperSizeA4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(tt.req)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tt.code, renderErr.Code)
		})
	}
}

func TestRender_BusyUntilDeadline(t *testing.T) {
	r := NewChromedpRenderer(&ChromedpConfig{
		RemoteURL:     "ws://127.0.0.1:1/devtools/browser/x",
		MaxConcurrent: 1,
	})
	defer r.Close()

	// Hold the only slot.
	r.slots <- struct{}{}
	defer func() { <-r.slots }()

	_, err := r.Render(context.Background(), &RenderRequest{
		HTML:      "<p>x</p>",
		PaperSize: printing.PaperSizeA4,
		Timeout:   20 * time.Millisecond,
	})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRendererBusy, renderErr.Code)
}

func TestWrapDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, wrapDocument(full))

	wrapped := wrapDocument("<p>x</p>")
	assert.Contains(t, wrapped, "<!DOCTYPE html>")
	assert.Contains(t, wrapped, `<meta charset="UTF-8">`)
	assert.Contains(t, wrapped, "<body><p>x</p></body>")
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Kids [] >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4")))
}

func TestDisabledRenderer(t *testing.T) {
	_, err := DisabledRenderer{}.Render(context.Background(), &RenderRequest{})
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRendererDisabled, renderErr.Code)
	assert.NoError(t, DisabledRenderer{}.Close())
}
