package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---
	filePermissions = 0o644 // rw-r--r--
)

// ExportResult holds the outcome of a single export.
type ExportResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Err        error
	Duration   time.Duration
}

// exportBatch exports files concurrently, one worker per pool slot.
// Results keep the order of files.
func exportBatch(ctx context.Context, pool Pool, files []FileToExport, params *exportParams) []ExportResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]ExportResult, len(files))
	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		acquireErr error
	)
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp, err := pool.Acquire(ctx)
			if err != nil {
				// Other workers may still drain the queue.
				mu.Lock()
				if acquireErr == nil {
					acquireErr = err
				}
				mu.Unlock()
				return
			}
			defer pool.Release(exp)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ExportResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = exportFile(ctx, exp, files[idx], params)
			}
		}()
	}
	wg.Wait()

	// Jobs left in the queue mean no worker got an exporter.
	for idx := range jobs {
		results[idx] = ExportResult{InputPath: files[idx].InputPath, Err: acquireErr}
	}
	return results
}

// exportFile reads one input, exports it and writes the output.
func exportFile(ctx context.Context, exp Exporter, f FileToExport, params *exportParams) ExportResult {
	start := time.Now()
	result := ExportResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	finish := func(err error) ExportResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if sameFile(f.InputPath, f.OutputPath) {
		return finish(fmt.Errorf("%w: output would overwrite the input", ErrWriteOutput))
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	res, err := exp.Export(ctx, params.format, payloadFor(f.InputPath, content, params.css))
	if err != nil {
		return finish(err)
	}
	result.Pages = res.Pages

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	if err := os.WriteFile(f.OutputPath, res.Data, filePermissions); err != nil {
		return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	return finish(nil)
}

// payloadFor builds the payload from the input kind. Relative assets
// resolve against the input's directory.
func payloadFor(path string, content []byte, css string) resumepdf.Payload {
	dir := filepath.Dir(path)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	p := resumepdf.Payload{SourceDir: dir, CSS: css}
	if fileutil.HasExtension(path, htmlExtensions...) {
		p.HTML = string(content)
	} else {
		p.Resume = content
	}
	return p
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
