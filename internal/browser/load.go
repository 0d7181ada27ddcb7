package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-resumepdf/internal/fileutil"
)

// Viewport is the page surface in CSS pixels plus the device scale factor
// used for captures.
type Viewport struct {
	Width  int
	Height int
	Scale  float64
}

// settleScript resolves once web fonts are ready and every image has either
// loaded or failed. It returns the number of broken images.
const settleScript = `() => {
	const fonts = document.fonts ? document.fonts.ready.catch(() => {}) : Promise.resolve();
	const pending = Array.from(document.images)
		.filter((img) => !img.complete)
		.map((img) => new Promise((resolve) => {
			img.addEventListener('load', resolve, { once: true });
			img.addEventListener('error', resolve, { once: true });
		}));
	return Promise.all([fonts, ...pending]).then(() =>
		Array.from(document.images).filter((img) => img.naturalWidth === 0).length);
}`

// Load renders doc in page at the given viewport over an opaque white
// background. Failing to load within the load timeout is an error; fonts
// or images that do not settle within the settle timeout are only logged.
func (b *Browser) Load(ctx context.Context, page *rod.Page, doc string, vp Viewport) error {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: vp.Scale,
	}); err != nil {
		return b.loadError(ctx, fmt.Errorf("setting viewport: %w", err))
	}

	opaque := 1.0
	bg := proto.EmulationSetDefaultBackgroundColorOverride{
		Color: &proto.DOMRGBA{R: 255, G: 255, B: 255, A: &opaque},
	}
	if err := bg.Call(page); err != nil {
		return b.loadError(ctx, fmt.Errorf("setting background: %w", err))
	}

	loadCtx, cancel := context.WithTimeout(ctx, b.cfg.LoadTimeout)
	defer cancel()

	loading := page.Context(loadCtx)
	cleanup, err := b.open(loading, doc)
	defer cleanup()
	if err != nil {
		return b.loadError(ctx, err)
	}
	if err := loading.WaitLoad(); err != nil {
		return b.loadError(ctx, err)
	}

	return b.settle(ctx, page)
}

// loadMode selects how a document reaches the page.
type loadMode int

const (
	// loadFromFile navigates to a temporary file, so relative file://
	// resources resolve as they would when opening the document directly.
	loadFromFile loadMode = iota
	// loadInline sets the document content over the DevTools connection.
	// A remote browser cannot read local files, so file:// resources in
	// the document do not load in this mode.
	loadInline
)

func (b *Browser) loadMode() loadMode {
	if b.cfg.RemoteURL != "" {
		return loadInline
	}
	return loadFromFile
}

// open puts doc into page. The returned cleanup is never nil and must run
// once the page has finished loading.
func (b *Browser) open(page *rod.Page, doc string) (func(), error) {
	if b.loadMode() == loadInline {
		return func() {}, page.SetDocumentContent(doc)
	}
	path, cleanup, err := fileutil.WriteTempFile(doc, "html")
	if err != nil {
		return func() {}, err
	}
	return cleanup, page.Navigate("file://" + path)
}

// settle waits for fonts and images. Only cancellation of ctx is returned.
func (b *Browser) settle(ctx context.Context, page *rod.Page) error {
	settleCtx, cancel := context.WithTimeout(ctx, b.cfg.SettleTimeout)
	defer cancel()

	res, err := page.Context(settleCtx).Eval(settleScript)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.logger.Warn("browser: resources did not settle", "timeout", b.cfg.SettleTimeout, "error", err)
		return nil
	}
	if broken := res.Value.Int(); broken > 0 {
		b.logger.Warn("browser: images failed to load", "count", broken)
	}
	return nil
}

// loadError reports cancellation as is and anything else as ErrPageLoad.
func (b *Browser) loadError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

// Container returns the first element matching selector without waiting
// for it to appear.
func Container(page *rod.Page, selector string) (*rod.Element, error) {
	found, el, err := page.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", selector, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: no element matches %s", ErrContainerNotFound, selector)
	}
	return el, nil
}
