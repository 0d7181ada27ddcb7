package resumepdf

import (
	"fmt"
	"strings"

	"github.com/alnah/go-resumepdf/internal/layout"
)

// Format names an export target.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts a format name in any case, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatHTML, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Extension returns the file extension with its dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the exported bytes.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Geometry bounds.
const (
	MinScale = 1.0
	MaxScale = 4.0
)

// Geometry is the page layout in CSS pixels. The defaults are A4 at 96 dpi
// with room for a footer band at the bottom.
type Geometry struct {
	PageWidthPx    int
	PageHeightPx   int
	MarginTopPx    int
	MarginBottomPx int
	Scale          float64 // device scale factor of the captured bitmap
}

// DefaultGeometry returns 794×1122 px pages, 40/100 px margins, 2x capture.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidthPx:    794,
		PageHeightPx:   1122,
		MarginTopPx:    40,
		MarginBottomPx: 100,
		Scale:          2,
	}
}

// UsableHeight is the vertical budget the planner fills on each page.
func (g Geometry) UsableHeight() float64 {
	return float64(g.PageHeightPx - g.MarginTopPx - g.MarginBottomPx)
}

// Validate checks dimensions, margins and scale.
func (g Geometry) Validate() error {
	if g.PageWidthPx <= 0 || g.PageHeightPx <= 0 {
		return fmt.Errorf("%w: page size %dx%d must be positive", ErrInvalidGeometry, g.PageWidthPx, g.PageHeightPx)
	}
	if g.MarginTopPx < 0 || g.MarginBottomPx < 0 {
		return fmt.Errorf("%w: margins %d/%d must not be negative", ErrInvalidGeometry, g.MarginTopPx, g.MarginBottomPx)
	}
	if g.UsableHeight() <= 0 {
		return fmt.Errorf("%w: margins %d/%d leave no room in a %dpx page",
			ErrInvalidGeometry, g.MarginTopPx, g.MarginBottomPx, g.PageHeightPx)
	}
	if g.Scale < MinScale || g.Scale > MaxScale {
		return fmt.Errorf("%w: scale %.2f (must be between %.0f and %.0f)", ErrInvalidGeometry, g.Scale, MinScale, MaxScale)
	}
	return nil
}

// Payload is one document to export. Set HTML, or Resume with a YAML or
// JSON résumé to render first. HTML wins when both are set.
type Payload struct {
	HTML      string // marker-class document
	Resume    []byte // structured résumé
	SourceDir string // resolves relative image and link paths
	CSS       string // appended after the configured style
	Title     string // document title; defaults to the résumé name
}

// Result is the exported document.
type Result struct {
	Format      Format
	Data        []byte
	Filename    string
	ContentType string
	Pages       int // 0 for HTML
}

// Block and PagePlan are the measurement and pagination units.
type (
	Block    = layout.Block
	PagePlan = layout.PagePlan
)
