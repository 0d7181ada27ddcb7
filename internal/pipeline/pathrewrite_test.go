package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRewriteRelativePaths(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("expected URLs use unix paths")
	}

	dir := t.TempDir()
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "photo in fragment",
			input:    `<img src="photo.jpg">`,
			contains: []string{`src="file://` + abs + `/photo.jpg"`},
		},
		{
			name:     "linked stylesheet in document",
			input:    `<!DOCTYPE html><html><head><link rel="stylesheet" href="css/cv.css"></head><body></body></html>`,
			contains: []string{`href="file://` + abs + `/css/cv.css"`},
		},
		{
			name:     "urls untouched",
			input:    `<a href="https://example.com">x</a><img src="data:image/png;base64,AA=="><a href="mailto:a@b.c">m</a>`,
			contains: []string{`href="https://example.com"`, `src="data:image/png;base64,AA=="`, `href="mailto:a@b.c"`},
			excludes: []string{"file://"},
		},
		{
			name:     "anchors and absolute paths untouched",
			input:    `<a href="#skills">s</a><img src="/etc/logo.png">`,
			contains: []string{`href="#skills"`, `src="/etc/logo.png"`},
		},
		{
			name:     "traversal left alone",
			input:    `<img src="../../secret.png">`,
			contains: []string{`src="../../secret.png"`},
		},
		{
			name:     "fragment gets no wrapper",
			input:    `<div class="item"><img src="a.png"></div>`,
			excludes: []string{"<html>", "<body>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.input, dir)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() unexpected error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("RewriteRelativePaths() = %q, missing %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("RewriteRelativePaths() = %q, unexpectedly contains %q", got, unwanted)
				}
			}
		})
	}
}

func TestRewriteRelativePaths_NoSourceDir(t *testing.T) {
	t.Parallel()

	in := `<img src="photo.jpg">`
	got, err := RewriteRelativePaths(in, "")
	if err != nil {
		t.Fatalf("RewriteRelativePaths() unexpected error: %v", err)
	}
	if got != in {
		t.Errorf("RewriteRelativePaths() = %q, want input unchanged", got)
	}
}
