package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/facturo/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultMaxConcurrent = 4
	defaultScale         = 1.0
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for one rendering, queueing included
	DefaultTimeout time.Duration
	// RemoteURL is the DevTools websocket of a running browser. When empty a
	// local browser is launched.
	RemoteURL string
	// ExecPath overrides the browser binary of the local allocator
	ExecPath string
	// MaxConcurrent caps the number of tabs printing at once
	MaxConcurrent int
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

// ChromedpConfigFrom maps the pdf configuration section
func ChromedpConfigFrom(cfg config.PDFConfig, logger *zap.Logger) *ChromedpConfig {
	return &ChromedpConfig{
		DefaultTimeout: cfg.Timeout,
		RemoteURL:      cfg.RemoteURL,
		ExecPath:       cfg.ExecPath,
		MaxConcurrent:  cfg.MaxConcurrent,
		NoSandbox:      true,
		Logger:         logger,
	}
}

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol.
// One browser is shared; each rendering opens its own tab.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	slots       chan struct{}
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(cfg *ChromedpConfig) *ChromedpRenderer {
	if cfg == nil {
		cfg = &ChromedpConfig{}
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultChromeTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Scale == 0 {
		cfg.Scale = defaultScale
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{
		config: cfg,
		logger: logger,
		slots:  make(chan struct{}, cfg.MaxConcurrent),
	}
	r.allocCtx, r.allocCancel = r.newAllocator()
	return r
}

func (r *ChromedpRenderer) newAllocator() (context.Context, context.CancelFunc) {
	if r.config.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ExecPath))
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render converts HTML content to PDF. Callers beyond MaxConcurrent wait for
// a free slot until their deadline.
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case r.slots <- struct{}{}:
		defer func() { <-r.slots }()
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeRendererBusy, "no free PDF renderer before deadline", ctx.Err())
	}

	startTime := time.Now()

	// The tab inherits the request deadline through ctx cancellation below.
	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	params := r.buildPrintParams(req)
	html := wrapDocument(req.HTML)

	var pdfData []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(params.printBackground).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.marginTop).
				WithMarginRight(params.marginRight).
				WithMarginBottom(params.marginBottom).
				WithMarginLeft(params.marginLeft).
				WithScale(params.scale).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        pdfData,
		PageCount:      estimatePageCount(pdfData),
		RenderDuration: time.Since(startTime),
	}
	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

func validateRequest(req *RenderRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PaperSize.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}

type printParams struct {
	paperWidth      float64
	paperHeight     float64
	marginTop       float64
	marginRight     float64
	marginBottom    float64
	marginLeft      float64
	scale           float64
	printBackground bool
}

// buildPrintParams converts the request to Chrome's inch based parameters
func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	width, height := req.PaperSize.Dimensions()
	return &printParams{
		paperWidth:      mmToInches(float64(width)),
		paperHeight:     mmToInches(float64(height)),
		marginTop:       mmToInches(float64(req.Margins.Top)),
		marginRight:     mmToInches(float64(req.Margins.Right)),
		marginBottom:    mmToInches(float64(req.Margins.Bottom)),
		marginLeft:      mmToInches(float64(req.Margins.Left)),
		scale:           r.config.Scale,
		printBackground: true,
	}
}

// wrapDocument completes an HTML fragment into a document
func wrapDocument(html string) string {
	lower := strings.ToLower(html)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return html
	}
	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8"></head><body>`)
	buf.WriteString(html)
	buf.WriteString("</body></html>")
	return buf.String()
}

// Close shuts the browser down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// estimatePageCount counts page objects; the page tree root is not a page
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page")) - bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count, 1)
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
