package resumepdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/alnah/go-resumepdf/internal/assets"
	"github.com/alnah/go-resumepdf/internal/browser"
	"github.com/alnah/go-resumepdf/internal/fileutil"
	"github.com/alnah/go-resumepdf/internal/layout"
	"github.com/alnah/go-resumepdf/internal/measure"
	"github.com/alnah/go-resumepdf/internal/pipeline"
	"github.com/alnah/go-resumepdf/internal/raster"
	"github.com/alnah/go-resumepdf/internal/resume"
	"github.com/alnah/go-resumepdf/internal/synth"
)

// Handler exports a prepared payload to one format.
type Handler interface {
	Export(ctx context.Context, p Payload) (*Result, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, p Payload) (*Result, error)

func (f HandlerFunc) Export(ctx context.Context, p Payload) (*Result, error) {
	return f(ctx, p)
}

// measurer and rasterizer are the browser-backed stages, swapped for fakes
// in tests.
type measurer interface {
	Measure(ctx context.Context, doc string) ([]layout.Block, error)
}

type rasterizer interface {
	Rasterize(ctx context.Context, doc string) ([]byte, error)
}

var (
	_ measurer   = (*measure.RodMeasurer)(nil)
	_ rasterizer = (*raster.Rasterizer)(nil)
)

// Exporter turns résumé documents into HTML snapshots or paginated PDFs.
// Create with NewExporter and Close when done. The browser starts on the
// first PDF export.
type Exporter struct {
	cfg     exporterConfig
	logger  *slog.Logger
	markers layout.Markers

	mu       sync.RWMutex
	handlers map[Format]Handler

	css          string
	pageTemplate string
	renderer     *resume.Renderer

	browser    *browser.Browser
	measurer   measurer
	rasterizer rasterizer
}

// NewExporter resolves assets and validates options. It does not start a
// browser.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg:     defaultConfig(),
		logger:  slog.New(slog.DiscardHandler),
		markers: layout.DefaultMarkers,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.geometry.Validate(); err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(e.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if e.css, err = resolveStyle(resolver, e.cfg.style); err != nil {
		return nil, err
	}
	if e.pageTemplate, err = resolver.LoadTemplate(assets.PageTemplateName); err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	if _, err := synth.New(e.pageTemplate, e.css); err != nil {
		return nil, err
	}
	resumeTemplate, err := resolver.LoadTemplate(assets.ResumeTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading resume template: %w", err)
	}
	// The style is injected during preparation, not by the renderer.
	if e.renderer, err = resume.NewRenderer(resumeTemplate, "", e.cfg.lang); err != nil {
		return nil, err
	}

	if e.measurer == nil || e.rasterizer == nil {
		e.browser = browser.New(browser.Config{
			Bin:           e.cfg.browserBin,
			RemoteURL:     e.cfg.remoteURL,
			NoSandbox:     e.cfg.noSandbox,
			LoadTimeout:   e.cfg.loadTimeout,
			SettleTimeout: e.cfg.settleTimeout,
			Logger:        e.logger,
		})
		g := e.cfg.geometry
		if e.measurer == nil {
			vp := browser.Viewport{Width: g.PageWidthPx, Height: g.PageHeightPx, Scale: 1}
			e.measurer = measure.NewRodMeasurer(e.browser, vp, e.markers, e.logger)
		}
		if e.rasterizer == nil {
			vp := browser.Viewport{Width: g.PageWidthPx, Height: g.PageHeightPx, Scale: g.Scale}
			e.rasterizer = raster.New(e.browser, vp, e.markers)
		}
	}

	e.handlers = map[Format]Handler{
		FormatHTML: HandlerFunc(e.exportHTML),
		FormatPDF:  HandlerFunc(e.exportPDF),
	}
	return e, nil
}

// resolveStyle loads a style by file path or by name. Empty selects the
// default style.
func resolveStyle(loader assets.AssetLoader, input string) (string, error) {
	if input == "" {
		input = assets.DefaultStyleName
	}
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}
	css, err := loader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}

// Register adds or replaces the handler for a format.
func (e *Exporter) Register(format Format, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[format] = h
}

// Formats lists the registered formats, sorted.
func (e *Exporter) Formats() []Format {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Format, 0, len(e.handlers))
	for f := range e.handlers {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Export prepares the payload and dispatches it to the format's handler.
// Handlers receive a payload whose HTML is the final document: résumé
// rendered, style injected and relative paths rewritten.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Exporter) Export(ctx context.Context, format Format, p Payload) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	e.mu.RLock()
	h, ok := e.handlers[format]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if p.HTML == "" && len(p.Resume) == 0 {
		return nil, ErrEmptyPayload
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()

	prepared, err := e.prepare(ctx, format, p)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("export: started", "format", format, "bytes", len(prepared.HTML))
	return h.Export(ctx, prepared)
}

// prepare renders a résumé when needed, injects the style and extra CSS,
// and rewrites relative paths against SourceDir. HTML snapshots keep
// their relative paths so the file stays portable.
func (e *Exporter) prepare(ctx context.Context, format Format, p Payload) (Payload, error) {
	if p.HTML == "" {
		r, err := resume.Decode(p.Resume)
		if err != nil {
			return p, err
		}
		if p.HTML, err = e.renderer.Render(ctx, r); err != nil {
			return p, err
		}
		if p.Title == "" {
			p.Title = r.Basics.Name
		}
	}
	if p.Title == "" {
		p.Title = e.cfg.title
	}

	p.HTML = pipeline.InjectCSS(p.HTML, e.stylesheet(p))

	if p.SourceDir != "" && format != FormatHTML {
		var err error
		if p.HTML, err = pipeline.RewriteRelativePaths(p.HTML, p.SourceDir); err != nil {
			return p, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}
	return p, ctx.Err()
}

// stylesheet is the configured style followed by the payload's CSS, so
// the payload can override.
func (e *Exporter) stylesheet(p Payload) string {
	if p.CSS == "" {
		return e.css
	}
	return e.css + "\n" + p.CSS
}

func (e *Exporter) exportHTML(ctx context.Context, p Payload) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{
		Format:      FormatHTML,
		Data:        []byte(p.HTML),
		Filename:    "resume" + FormatHTML.Extension(),
		ContentType: FormatHTML.ContentType(),
	}, nil
}

// Close releases the browser. The Exporter must not be used afterwards.
func (e *Exporter) Close() error {
	if e.browser != nil {
		return e.browser.Close()
	}
	return nil
}
