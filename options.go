package resumepdf

import (
	"log/slog"
	"time"
)

// Default timeouts.
const (
	DefaultTimeout       = 90 * time.Second
	DefaultLoadTimeout   = 10 * time.Second
	DefaultSettleTimeout = 5 * time.Second
)

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds the settings options write to.
type exporterConfig struct {
	timeout       time.Duration
	loadTimeout   time.Duration
	settleTimeout time.Duration
	geometry      Geometry
	style         string
	assetPath     string
	browserBin    string
	remoteURL     string
	noSandbox     bool
	title         string
	author        string
	lang          string
	clock         func() time.Time
}

func defaultConfig() exporterConfig {
	return exporterConfig{
		timeout:       DefaultTimeout,
		loadTimeout:   DefaultLoadTimeout,
		settleTimeout: DefaultSettleTimeout,
		geometry:      DefaultGeometry(),
		lang:          "en",
		clock:         time.Now,
	}
}

// WithTimeout bounds a whole export.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("resumepdf: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithLoadTimeout bounds loading each page into the browser. Exceeding it
// fails the export. Panics if d <= 0.
func WithLoadTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("resumepdf: WithLoadTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.loadTimeout = d
	}
}

// WithSettleTimeout bounds the wait for fonts and images after load.
// Exceeding it is only logged. Panics if d <= 0.
func WithSettleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("resumepdf: WithSettleTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.settleTimeout = d
	}
}

// WithGeometry replaces the page geometry. NewExporter validates it.
func WithGeometry(g Geometry) Option {
	return func(e *Exporter) {
		e.cfg.geometry = g
	}
}

// WithStyle selects the stylesheet by name ("classic", "compact", or a
// custom style under the asset path) or by .css file path.
func WithStyle(nameOrPath string) Option {
	return func(e *Exporter) {
		e.cfg.style = nameOrPath
	}
}

// WithAssetPath adds a directory with styles/ and templates/ overrides.
// Assets missing there fall back to the built-in ones.
func WithAssetPath(path string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = path
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithBrowserBin sets the Chromium executable.
func WithBrowserBin(path string) Option {
	return func(e *Exporter) {
		e.cfg.browserBin = path
	}
}

// WithRemoteBrowser connects to a running browser instead of launching
// one.
func WithRemoteBrowser(url string) Option {
	return func(e *Exporter) {
		e.cfg.remoteURL = url
	}
}

func WithNoSandbox() Option {
	return func(e *Exporter) {
		e.cfg.noSandbox = true
	}
}

// WithTitle sets the default document title written into page titles and
// PDF metadata.
func WithTitle(title string) Option {
	return func(e *Exporter) {
		e.cfg.title = title
	}
}

func WithAuthor(author string) Option {
	return func(e *Exporter) {
		e.cfg.author = author
	}
}

// WithLang sets the html lang attribute of rendered documents.
func WithLang(lang string) Option {
	return func(e *Exporter) {
		if lang != "" {
			e.cfg.lang = lang
		}
	}
}

// WithClock fixes the PDF creation date source. A constant clock makes
// output byte-stable.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.cfg.clock = now
		}
	}
}
