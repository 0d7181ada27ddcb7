package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"browser connect", resumepdf.ErrBrowserConnect, ExitBrowser},
		{"page create", resumepdf.ErrPageCreate, ExitBrowser},
		{"page load", resumepdf.ErrPageLoad, ExitBrowser},
		{"rasterize", resumepdf.ErrRasterize, ExitBrowser},
		{"page error wrapping rasterize", &resumepdf.PageError{Index: 1, Err: resumepdf.ErrRasterize}, ExitBrowser},

		{"container not found", resumepdf.ErrContainerNotFound, ExitContent},
		{"empty document", resumepdf.ErrEmptyDocument, ExitContent},
		{"no content", resumepdf.ErrNoContent, ExitContent},
		{"invalid resume", fmt.Errorf("%w: bad type", resumepdf.ErrInvalidResume), ExitContent},

		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"read css", ErrReadCSS, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"no files", ErrNoFiles, ExitIO},

		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid config value", config.ErrInvalidValue, ExitUsage},
		{"unsupported format", resumepdf.ErrUnsupportedFormat, ExitUsage},
		{"invalid geometry", resumepdf.ErrInvalidGeometry, ExitUsage},
		{"style not found", resumepdf.ErrStyleNotFound, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"invalid workers", ErrInvalidWorkerCount, ExitUsage},

		{"batch wraps first failure", &batchError{failed: 1, total: 2, first: ErrWriteOutput}, ExitIO},
		{"deadline", context.DeadlineExceeded, ExitGeneral},
		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_BelowShellReserved(t *testing.T) {
	t.Parallel()

	for _, code := range []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitBrowser, ExitContent} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
	}
}
