package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/assets"
	"github.com/alnah/go-resumepdf/internal/config"
	"github.com/alnah/go-resumepdf/internal/hints"
	"github.com/alnah/go-resumepdf/internal/layout"
)

// configNotFoundError carries the paths searched for a config name.
type configNotFoundError struct {
	err   error
	paths []string
}

func (e *configNotFoundError) Error() string {
	return fmt.Sprintf("%v (searched %s)", e.err, strings.Join(e.paths, ", "))
}

func (e *configNotFoundError) Unwrap() error { return e.err }

// configError attaches the searched paths when a config name was not found.
func configError(err error, name string) error {
	if !errors.Is(err, config.ErrConfigNotFound) || isConfigPath(name) {
		return err
	}
	return &configNotFoundError{err: err, paths: config.SearchPaths(name)}
}

func isConfigPath(name string) bool {
	return strings.ContainsAny(name, `/\`) ||
		strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// batchError summarizes failed exports. Each failure is already printed.
type batchError struct {
	failed, total int
	first         error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d exports failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.first }

// reportResults prints one line per file and returns a batchError when
// any export failed.
func reportResults(env *Environment, results []ExportResult, quiet bool) error {
	var be batchError
	be.total = len(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAIL %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			be.failed++
			if be.first == nil {
				be.first = r.Err
			}
			continue
		}
		if quiet {
			continue
		}
		if r.Pages > 0 {
			fmt.Fprintf(env.Stdout, "ok   %s -> %s (%d pages, %s)\n", r.InputPath, r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "ok   %s -> %s (%s)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		}
	}

	if be.failed > 0 {
		return &be
	}
	return nil
}

// printError writes err with an actionable hint when one applies.
func printError(w io.Writer, err error) {
	var be *batchError
	if errors.As(err, &be) {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error: %v%s\n", err, hintFor(err))
}

// hintFor maps an error to a hint line, or "" when none applies.
func hintFor(err error) string {
	var nf *configNotFoundError
	switch {
	case errors.As(err, &nf):
		return hints.ForConfigNotFound(nf.paths)
	case errors.Is(err, resumepdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, resumepdf.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, resumepdf.ErrContainerNotFound):
		return hints.ForContainerNotFound(layout.DefaultMarkers.Container)
	case errors.Is(err, resumepdf.ErrEmptyDocument), errors.Is(err, resumepdf.ErrNoContent):
		return hints.ForEmptyDocument()
	case errors.Is(err, resumepdf.ErrInvalidResume):
		return hints.ForResumeData()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
