//go:build integration

package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod"
)

const testTimeout = 30 * time.Second

func TestBrowser_Load_Integration(t *testing.T) {
	b := New(Config{})
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	doc := `<!DOCTYPE html><html><body><div class="resume-container"><p>hello</p></div></body></html>`
	err := b.WithPage(ctx, func(page *rod.Page) error {
		if err := b.Load(ctx, page, doc, Viewport{Width: 794, Height: 1122, Scale: 1}); err != nil {
			return err
		}
		if _, err := Container(page, ".resume-container"); err != nil {
			return err
		}
		_, err := Container(page, ".missing")
		if !errors.Is(err, ErrContainerNotFound) {
			t.Errorf("Container(.missing) error = %v, want ErrContainerNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithPage() unexpected error: %v", err)
	}
}

func TestBrowser_WithPagePanic_Integration(t *testing.T) {
	b := New(Config{})
	t.Cleanup(func() { _ = b.Close() })

	err := b.WithPage(context.Background(), func(*rod.Page) error {
		panic("boom")
	})
	if !errors.Is(err, ErrPagePanic) {
		t.Errorf("WithPage() error = %v, want ErrPagePanic", err)
	}
}
