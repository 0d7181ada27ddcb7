// Package raster captures a synthesized page as a bitmap.
package raster

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/alnah/go-resumepdf/internal/browser"
	"github.com/alnah/go-resumepdf/internal/layout"
)

// ErrRasterize is returned when the capture itself fails.
var ErrRasterize = errors.New("failed to rasterize page")

// DefaultQuality is the JPEG quality of captured pages.
const DefaultQuality = 95

// Rasterizer renders one page document at a time on a fresh browser page
// and returns a JPEG of the résumé container.
type Rasterizer struct {
	browser   *browser.Browser
	viewport  browser.Viewport
	container string
	quality   int
}

// New captures at vp: the output is vp.Width × vp.Height CSS pixels,
// multiplied by vp.Scale.
func New(b *browser.Browser, vp browser.Viewport, markers layout.Markers) *Rasterizer {
	return &Rasterizer{
		browser:   b,
		viewport:  vp,
		container: layout.Selector(markers.Container),
		quality:   DefaultQuality,
	}
}

// Rasterize loads doc and captures the fixed page area starting at the
// container's top-left corner. Content beyond the page height is cut off.
func (r *Rasterizer) Rasterize(ctx context.Context, doc string) ([]byte, error) {
	var img []byte
	err := r.browser.WithPage(ctx, func(page *rod.Page) error {
		if err := r.browser.Load(ctx, page, doc, r.viewport); err != nil {
			return err
		}

		el, err := browser.Container(page, r.container)
		if err != nil {
			return err
		}
		shape, err := el.Shape()
		if err != nil {
			return r.captureError(ctx, fmt.Errorf("locating container: %w", err))
		}
		box := shape.Box()
		if box == nil {
			return fmt.Errorf("%w: container has no layout box", ErrRasterize)
		}

		img, err = page.Screenshot(false, &proto.PageCaptureScreenshot{
			Format:  proto.PageCaptureScreenshotFormatJpeg,
			Quality: gson.Int(r.quality),
			Clip: &proto.PageViewport{
				X:      box.X,
				Y:      box.Y,
				Width:  float64(r.viewport.Width),
				Height: float64(r.viewport.Height),
				Scale:  1,
			},
			CaptureBeyondViewport: true,
		})
		if err != nil {
			return r.captureError(ctx, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Rasterizer) captureError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", ErrRasterize, err)
}
