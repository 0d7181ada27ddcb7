package main

import (
	"io"
	"log/slog"
	"time"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/config"
)

// loadSettings loads the config named by the flag (or RESUMEPDF_CONFIG)
// and applies environment overrides. Without a name, defaults are used.
func loadSettings(configFlag string, env *Environment) (*config.Config, string, error) {
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	name := configFlag
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, name, err
		}
		cfg = loaded
	}
	applyEnvConfig(envCfg, cfg)
	return cfg, name, nil
}

func mergeBrowserFlags(f browserFlags, cfg *config.Config) {
	setString(&cfg.Browser.Bin, f.bin)
	setString(&cfg.Browser.RemoteURL, f.remote)
	if f.noSandbox {
		cfg.Browser.NoSandbox = true
	}
}

func mergeStyleFlags(f styleFlags, cfg *config.Config) {
	setString(&cfg.Style.Name, f.name)
	setString(&cfg.Style.AssetPath, f.assetPath)
}

func mergeDocumentFlags(f documentFlags, cfg *config.Config) {
	setString(&cfg.Document.Title, f.title)
	setString(&cfg.Document.Author, f.author)
	setString(&cfg.Document.Lang, f.lang)
}

// exporterOptions maps config onto exporter options. Zero values keep the
// library defaults.
func exporterOptions(cfg *config.Config, logger *slog.Logger, now func() time.Time) []resumepdf.Option {
	opts := []resumepdf.Option{
		resumepdf.WithLogger(logger),
		resumepdf.WithGeometry(geometryFrom(cfg.Page)),
	}
	if now != nil {
		opts = append(opts, resumepdf.WithClock(now))
	}

	if t := cfg.Timeouts; t.Export > 0 {
		opts = append(opts, resumepdf.WithTimeout(t.Export))
	}
	if t := cfg.Timeouts; t.Load > 0 {
		opts = append(opts, resumepdf.WithLoadTimeout(t.Load))
	}
	if t := cfg.Timeouts; t.Settle > 0 {
		opts = append(opts, resumepdf.WithSettleTimeout(t.Settle))
	}

	if cfg.Style.Name != "" {
		opts = append(opts, resumepdf.WithStyle(cfg.Style.Name))
	}
	if cfg.Style.AssetPath != "" {
		opts = append(opts, resumepdf.WithAssetPath(cfg.Style.AssetPath))
	}

	if cfg.Browser.Bin != "" {
		opts = append(opts, resumepdf.WithBrowserBin(cfg.Browser.Bin))
	}
	if cfg.Browser.RemoteURL != "" {
		opts = append(opts, resumepdf.WithRemoteBrowser(cfg.Browser.RemoteURL))
	}
	if cfg.Browser.NoSandbox {
		opts = append(opts, resumepdf.WithNoSandbox())
	}

	if cfg.Document.Title != "" {
		opts = append(opts, resumepdf.WithTitle(cfg.Document.Title))
	}
	if cfg.Document.Author != "" {
		opts = append(opts, resumepdf.WithAuthor(cfg.Document.Author))
	}
	if cfg.Document.Lang != "" {
		opts = append(opts, resumepdf.WithLang(cfg.Document.Lang))
	}
	return opts
}

// geometryFrom overrides the default geometry with the set page fields.
func geometryFrom(p config.PageConfig) resumepdf.Geometry {
	g := resumepdf.DefaultGeometry()
	if p.WidthPx > 0 {
		g.PageWidthPx = p.WidthPx
	}
	if p.HeightPx > 0 {
		g.PageHeightPx = p.HeightPx
	}
	if p.MarginTopPx > 0 {
		g.MarginTopPx = p.MarginTopPx
	}
	if p.MarginBottomPx > 0 {
		g.MarginBottomPx = p.MarginBottomPx
	}
	if p.Scale > 0 {
		g.Scale = p.Scale
	}
	return g
}

// newLogger writes text logs to w: debug with --verbose, errors only with
// --quiet, warnings otherwise.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
