package assemble

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("jpeg.Encode() unexpected error: %v", err)
	}
	return buf.Bytes()
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode() unexpected error: %v", err)
	}
	return buf.Bytes()
}

func countPages(pdf []byte) int {
	return bytes.Count(pdf, []byte("<</Type /Page\n"))
}

func TestDocument_AddPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		images func(t *testing.T) [][]byte
	}{
		{
			name: "single A4 ratio page",
			images: func(t *testing.T) [][]byte {
				return [][]byte{testJPEG(t, 397, 561)}
			},
		},
		{
			name: "three pages",
			images: func(t *testing.T) [][]byte {
				return [][]byte{testJPEG(t, 397, 561), testJPEG(t, 397, 561), testJPEG(t, 397, 561)}
			},
		},
		{
			name: "taller than a page is clipped",
			images: func(t *testing.T) [][]byte {
				return [][]byte{testJPEG(t, 100, 400)}
			},
		},
		{
			name: "png page",
			images: func(t *testing.T) [][]byte {
				return [][]byte{testPNG(t, 50, 70)}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := New(Metadata{Title: "Resume", Created: fixedTime})
			images := tt.images(t)
			for i, img := range images {
				if err := doc.AddPage(img); err != nil {
					t.Fatalf("AddPage(%d) unexpected error: %v", i, err)
				}
			}
			if doc.Pages() != len(images) {
				t.Errorf("Pages() = %d, want %d", doc.Pages(), len(images))
			}

			out, err := doc.Bytes()
			if err != nil {
				t.Fatalf("Bytes() unexpected error: %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF-")) {
				t.Errorf("Bytes() does not start with a PDF header")
			}
			if got := countPages(out); got != len(images) {
				t.Errorf("PDF has %d pages, want %d", got, len(images))
			}
		})
	}
}

func TestDocument_ClipsTallImage(t *testing.T) {
	t.Parallel()

	doc := New(Metadata{Created: fixedTime})
	if err := doc.AddPage(testJPEG(t, 100, 400)); err != nil {
		t.Fatalf("AddPage() unexpected error: %v", err)
	}
	doc.pdf.SetCompression(false)
	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() unexpected error: %v", err)
	}
	// ClipRect emits a rectangle followed by the clip operator.
	if !bytes.Contains(out, []byte(" re W n")) {
		t.Error("tall page was not drawn inside a clipping rectangle")
	}
}

func TestDocument_CreationDate(t *testing.T) {
	t.Parallel()

	build := func() []byte {
		doc := New(Metadata{Title: "Resume", Creator: "go-resumepdf", Created: fixedTime})
		if err := doc.AddPage(testJPEG(t, 40, 56)); err != nil {
			t.Fatalf("AddPage() unexpected error: %v", err)
		}
		out, err := doc.Bytes()
		if err != nil {
			t.Fatalf("Bytes() unexpected error: %v", err)
		}
		return out
	}

	first := build()
	if !bytes.Contains(first, []byte("D:20260314092653")) {
		t.Error("PDF does not carry the injected creation date")
	}
	if !bytes.Equal(first, build()) {
		t.Error("two builds with the same clock differ")
	}
}

func TestDocument_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		img  []byte
	}{
		{"empty", nil},
		{"not an image", []byte("<html></html>")},
		{"truncated jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := New(Metadata{})
			if err := doc.AddPage(tt.img); !errors.Is(err, ErrPDFAssembly) {
				t.Errorf("AddPage() error = %v, want ErrPDFAssembly", err)
			}
		})
	}
}

func TestDocument_BytesWithoutPages(t *testing.T) {
	t.Parallel()

	if _, err := New(Metadata{}).Bytes(); !errors.Is(err, ErrPDFAssembly) {
		t.Errorf("Bytes() error = %v, want ErrPDFAssembly", err)
	}
}
