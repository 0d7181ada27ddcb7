// Package browser owns the headless Chromium used to measure and
// rasterize résumé pages.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-resumepdf/internal/process"
)

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPagePanic      = errors.New("page operation panicked")

	// ErrContainerNotFound means the document has no résumé container
	// element to measure or capture.
	ErrContainerNotFound = errors.New("resume container not found")
)

// Default timeouts.
const (
	DefaultLoadTimeout   = 10 * time.Second
	DefaultSettleTimeout = 5 * time.Second
)

// Config controls how the browser is found and how long pages may take.
type Config struct {
	// Bin is the Chromium executable. Empty falls back to ROD_BROWSER_BIN,
	// then to rod's lookup and download.
	Bin string
	// RemoteURL connects to an already running browser instead of
	// launching one (e.g. ws://chrome:9222 or http://chrome:9222).
	RemoteURL string
	// NoSandbox is required in most containers and CI runners.
	NoSandbox bool

	LoadTimeout   time.Duration
	SettleTimeout time.Duration

	Logger *slog.Logger
}

// Browser lazily launches Chromium on first use and serves pages from it.
// Methods are safe for concurrent use, though a single exporter drives one
// page at a time.
type Browser struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	rod      *rod.Browser
	launcher *launcher.Launcher
}

// New returns a Browser that has not started yet.
func New(cfg Config) *Browser {
	if cfg.Bin == "" {
		cfg.Bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || cfg.Bin != "" {
		cfg.NoSandbox = true
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = DefaultSettleTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Browser{cfg: cfg, logger: logger}
}

// ensure starts or connects to the browser once.
func (b *Browser) ensure() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rod != nil {
		return b.rod, nil
	}

	var controlURL string
	if b.cfg.RemoteURL != "" {
		u, err := launcher.ResolveURL(b.cfg.RemoteURL)
		if err != nil {
			return nil, fmt.Errorf("%w: resolving %s: %v", ErrBrowserConnect, b.cfg.RemoteURL, err)
		}
		controlURL = u
		b.logger.Info("browser: connecting to remote", "url", b.cfg.RemoteURL)
	} else {
		l := launcher.New().Headless(true)
		if b.cfg.Bin != "" {
			l = l.Bin(b.cfg.Bin)
		}
		if b.cfg.NoSandbox {
			l = l.NoSandbox(true)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
		}
		controlURL = u
		b.launcher = l
		b.logger.Info("browser: launched", "pid", l.PID(), "bin", b.cfg.Bin, "no_sandbox", b.cfg.NoSandbox)
	}

	br := rod.New().ControlURL(controlURL)
	if err := br.Connect(); err != nil {
		b.killLauncher()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.rod = br
	return br, nil
}

// Close shuts the browser down and kills its process tree. Closing a
// browser that never started is a no-op.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.rod != nil {
		err = b.rod.Close()
		b.rod = nil
	}
	b.killLauncher()
	return err
}

// killLauncher must be called with mu held.
func (b *Browser) killLauncher() {
	if b.launcher == nil {
		return
	}
	pid := b.launcher.PID()
	if err := process.KillTree(pid); err != nil {
		b.logger.Debug("browser: killing process tree", "pid", pid, "error", err)
	}
	b.launcher.Kill()
	b.launcher.Cleanup()
	b.launcher = nil
	b.logger.Info("browser: closed", "pid", pid)
}

// WithPage opens a fresh page, passes it to fn bound to ctx, and closes
// the page when fn returns, fails or panics.
func (b *Browser) WithPage(ctx context.Context, fn func(page *rod.Page) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	br, err := b.ensure()
	if err != nil {
		return err
	}

	page, err := br.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPagePanic, r)
		}
		if closeErr := page.Close(); closeErr != nil {
			b.logger.Debug("browser: closing page", "error", closeErr)
		}
	}()

	return fn(page.Context(ctx))
}
