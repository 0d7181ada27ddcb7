package resumepdf

import (
	"errors"
	"fmt"

	"github.com/alnah/go-resumepdf/internal/assemble"
	"github.com/alnah/go-resumepdf/internal/assets"
	"github.com/alnah/go-resumepdf/internal/browser"
	"github.com/alnah/go-resumepdf/internal/measure"
	"github.com/alnah/go-resumepdf/internal/raster"
	"github.com/alnah/go-resumepdf/internal/resume"
)

// Sentinel errors for export operations.
var (
	ErrEmptyPayload      = errors.New("payload has no document")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNoContent         = errors.New("document produced no pages")
	ErrInvalidGeometry   = errors.New("invalid page geometry")
	ErrInvalidAssetPath  = errors.New("invalid asset path")
	ErrPoolClosed        = errors.New("exporter pool is closed")
)

// Errors raised by the pipeline stages, re-exported so callers only import
// this package.
var (
	// Measurement.
	ErrEmptyDocument     = measure.ErrEmptyDocument
	ErrContainerNotFound = browser.ErrContainerNotFound

	// Browser.
	ErrBrowserConnect = browser.ErrBrowserConnect
	ErrPageCreate     = browser.ErrPageCreate
	ErrPageLoad       = browser.ErrPageLoad

	// Rendering and assembly.
	ErrRasterize   = raster.ErrRasterize
	ErrPDFAssembly = assemble.ErrPDFAssembly

	// Inputs.
	ErrInvalidResume = resume.ErrInvalidResume
	ErrStyleNotFound = assets.ErrStyleNotFound
)

// PageError reports which page of a PDF export failed. Index is 0-based.
type PageError struct {
	Index int
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Index+1, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
