package main

import (
	"errors"
	"os"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/config"
)

// Exit codes. 0, 1 and 2 follow Unix conventions; custom codes stay
// below 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chromium errors
	ExitContent = 5 // Document cannot be laid out
)

// exitCodeFor returns the exit code for an error, following wrapped
// errors with errors.Is.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, resumepdf.ErrBrowserConnect) ||
		errors.Is(err, resumepdf.ErrPageCreate) ||
		errors.Is(err, resumepdf.ErrPageLoad) ||
		errors.Is(err, resumepdf.ErrRasterize) {
		return ExitBrowser
	}

	if errors.Is(err, resumepdf.ErrContainerNotFound) ||
		errors.Is(err, resumepdf.ErrEmptyDocument) ||
		errors.Is(err, resumepdf.ErrNoContent) ||
		errors.Is(err, resumepdf.ErrInvalidResume) {
		return ExitContent
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoFiles) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, resumepdf.ErrEmptyPayload) ||
		errors.Is(err, resumepdf.ErrUnsupportedFormat) ||
		errors.Is(err, resumepdf.ErrInvalidGeometry) ||
		errors.Is(err, resumepdf.ErrInvalidAssetPath) ||
		errors.Is(err, resumepdf.ErrStyleNotFound) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
