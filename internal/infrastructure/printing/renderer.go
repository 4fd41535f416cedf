package printing

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/printing"
)

// RenderRequest is one HTML document to print. Margins are in millimetres;
// a zero Timeout uses the renderer default.
type RenderRequest struct {
	HTML      string
	PaperSize printing.PaperSize
	Margins   printing.Margins
	Timeout   time.Duration
}

type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer prints HTML to PDF. Implementations are safe for concurrent
// use and bound the number of renders in flight.
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError carries a stable Code the HTTP layer maps to a status.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidDocument  = "INVALID_DOCUMENT"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeRendererBusy     = "RENDERER_BUSY"
	ErrCodeRendererDisabled = "PDF_DISABLED"
)

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// DisabledRenderer stands in when PDF export is switched off; HTML export
// keeps working.
type DisabledRenderer struct{}

func (DisabledRenderer) Render(context.Context, *RenderRequest) (*RenderResult, error) {
	return nil, NewRenderError(ErrCodeRendererDisabled, "PDF export is disabled", nil)
}

func (DisabledRenderer) Close() error { return nil }
