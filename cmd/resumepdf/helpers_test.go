package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	resumepdf "github.com/alnah/go-resumepdf"
)

// fakeExporter records payloads and fails for inputs whose HTML or résumé
// contains failOn.
type fakeExporter struct {
	mu       sync.Mutex
	payloads []resumepdf.Payload
	failOn   string
	err      error
}

func (f *fakeExporter) Export(ctx context.Context, format resumepdf.Format, p resumepdf.Payload) (*resumepdf.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.payloads = append(f.payloads, p)
	f.mu.Unlock()

	if f.failOn != "" && (strings.Contains(p.HTML, f.failOn) || strings.Contains(string(p.Resume), f.failOn)) {
		return nil, f.err
	}
	pages := 0
	if format == resumepdf.FormatPDF {
		pages = 2
	}
	return &resumepdf.Result{
		Format: format,
		Data:   []byte("exported " + string(format)),
		Pages:  pages,
	}, nil
}

func (f *fakeExporter) Payloads() []resumepdf.Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]resumepdf.Payload(nil), f.payloads...)
}

// fakePool hands out one shared fakeExporter.
type fakePool struct {
	exp        *fakeExporter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
	opts     int
}

func newFakePool(size int) *fakePool {
	return &fakePool{exp: &fakeExporter{}, size: size}
}

func (p *fakePool) Acquire(ctx context.Context) (Exporter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++
	return p.exp, nil
}

func (p *fakePool) Release(Exporter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// testEnv is an Environment with captured output, a fixed clock and a
// fake environment map.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string
	pool   *fakePool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		vars:   map[string]string{},
		pool:   newFakePool(2),
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewPool: func(size int, opts ...resumepdf.Option) Pool {
			te.pool.opts = len(opts)
			return te.pool
		},
	}
	return te
}

// writeFile creates dir/name with content, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const testResumeYAML = `basics:
  name: Jane Doe
  email: jane@example.com
sections:
  - type: text
    title: Summary
    content: Builds reliable systems.
`

const testHTML = `<html><body><div class="resume-container"><div class="header">Jane</div></div></body></html>`

var errExportFailed = errors.New("export failed")
