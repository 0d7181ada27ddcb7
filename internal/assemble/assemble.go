// Package assemble builds an A4 PDF out of full-page bitmaps.
package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// A4 portrait, in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// ErrPDFAssembly wraps every failure reported by the PDF writer.
var ErrPDFAssembly = errors.New("PDF assembly failed")

// Metadata is written into the document information dictionary.
type Metadata struct {
	Title   string
	Author  string
	Creator string
	// Created is used as the creation date. A fixed value makes the
	// output byte-stable across runs.
	Created time.Time
}

// Document accumulates pages. It is not safe for concurrent use.
type Document struct {
	pdf   *gofpdf.Fpdf
	pages int
}

// New starts an empty A4 portrait document with no margins and no
// automatic page breaks.
func New(meta Metadata) *Document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
		pdf.SetModificationDate(meta.Created)
	}
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if meta.Creator != "" {
		pdf.SetCreator(meta.Creator, true)
		pdf.SetProducer(meta.Creator, true)
	}
	return &Document{pdf: pdf}
}

// AddPage appends one page showing img (JPEG or PNG) at the top-left
// corner, scaled to the page width with its aspect ratio kept. An image
// taller than the page is clipped at the bottom edge rather than squeezed.
func (d *Document) AddPage(img []byte) error {
	imageType, err := detectImageType(img)
	if err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrPDFAssembly, d.pages+1, err)
	}

	name := fmt.Sprintf("page-%d", d.pages+1)
	opts := gofpdf.ImageOptions{ImageType: imageType}
	info := d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrPDFAssembly, d.pages+1, err)
	}
	if info == nil || info.Width() <= 0 {
		return fmt.Errorf("%w: page %d: image has no width", ErrPDFAssembly, d.pages+1)
	}

	height := info.Height() / info.Width() * PageWidthMM

	d.pdf.AddPage()
	if height > PageHeightMM {
		d.pdf.ClipRect(0, 0, PageWidthMM, PageHeightMM, false)
		d.pdf.ImageOptions(name, 0, 0, PageWidthMM, height, false, opts, 0, "")
		d.pdf.ClipEnd()
	} else {
		d.pdf.ImageOptions(name, 0, 0, PageWidthMM, height, false, opts, 0, "")
	}
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("%w: page %d: %v", ErrPDFAssembly, d.pages+1, err)
	}
	d.pages++
	return nil
}

// Pages returns the number of pages added so far.
func (d *Document) Pages() int {
	return d.pages
}

// Bytes finalizes the document. It must be called once, after the last page.
func (d *Document) Bytes() ([]byte, error) {
	if d.pages == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrPDFAssembly)
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFAssembly, err)
	}
	return buf.Bytes(), nil
}

func detectImageType(img []byte) (string, error) {
	switch {
	case len(img) >= 3 && img[0] == 0xFF && img[1] == 0xD8 && img[2] == 0xFF:
		return "JPG", nil
	case len(img) >= 8 && bytes.Equal(img[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "PNG", nil
	case len(img) == 0:
		return "", errors.New("empty image")
	default:
		return "", errors.New("unsupported image format")
	}
}
