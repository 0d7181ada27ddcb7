// Package config loads the YAML configuration shared by the CLI and the
// HTTP server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-resumepdf/internal/fileutil"
	"github.com/alnah/go-resumepdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory searched under the user config directory.
const AppDirName = "go-resumepdf"

// Field length limits.
const (
	MaxTitleLength  = 200
	MaxNameLength   = 100
	MaxLangLength   = 20
	MaxStyleLength  = 4096 // name or path
	MaxCSSLength    = 64 << 10
	MaxPathLength   = 4096
	MaxURLLength    = 2048
	MaxAddrLength   = 100
	MaxWorkers      = 64
	MaxScale        = 4.0
	MinScale        = 1.0
	MaxPageDimPx    = 10000
	MaxFormatLength = 10
)

// Config holds every tunable of an export. Zero values mean "use the
// library default".
type Config struct {
	Browser  BrowserConfig  `yaml:"browser"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Page     PageConfig     `yaml:"page"`
	Style    StyleConfig    `yaml:"style"`
	Document DocumentConfig `yaml:"document"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`
}

type BrowserConfig struct {
	Bin       string `yaml:"bin"`       // Chromium executable (empty = ROD_BROWSER_BIN or auto)
	RemoteURL string `yaml:"remoteURL"` // connect to a running browser instead of launching
	NoSandbox bool   `yaml:"noSandbox"`
}

// TimeoutsConfig takes Go duration strings ("90s", "2m").
type TimeoutsConfig struct {
	Export time.Duration `yaml:"export"` // whole export
	Load   time.Duration `yaml:"load"`   // per page load, fatal
	Settle time.Duration `yaml:"settle"` // fonts and images, non-fatal
}

// PageConfig is the page geometry in CSS pixels.
type PageConfig struct {
	WidthPx        int     `yaml:"widthPx"`
	HeightPx       int     `yaml:"heightPx"`
	MarginTopPx    int     `yaml:"marginTopPx"`
	MarginBottomPx int     `yaml:"marginBottomPx"`
	Scale          float64 `yaml:"scale"`
}

type StyleConfig struct {
	Name      string `yaml:"name"`      // built-in or custom style name, or a .css path
	CSS       string `yaml:"css"`       // extra CSS appended to the document
	AssetPath string `yaml:"assetPath"` // directory with styles/ and templates/ overrides
}

type DocumentConfig struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Lang   string `yaml:"lang"`
}

type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"`
}

type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	Format     string `yaml:"format"`     // "pdf" or "html"
}

type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes"`
	Workers      int    `yaml:"workers"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: "pdf"},
		Server: ServerConfig{Addr: ":8080", MaxBodyBytes: 5 << 20},
	}
}

// Validate checks ranges and field lengths. LoadConfig calls it; callers
// building a Config by hand should too.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"browser.bin", c.Browser.Bin, MaxPathLength},
		{"browser.remoteURL", c.Browser.RemoteURL, MaxURLLength},
		{"style.name", c.Style.Name, MaxStyleLength},
		{"style.css", c.Style.CSS, MaxCSSLength},
		{"style.assetPath", c.Style.AssetPath, MaxPathLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.author", c.Document.Author, MaxNameLength},
		{"document.lang", c.Document.Lang, MaxLangLength},
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.format", c.Output.Format, MaxFormatLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for name, d := range map[string]time.Duration{
		"timeouts.export": c.Timeouts.Export,
		"timeouts.load":   c.Timeouts.Load,
		"timeouts.settle": c.Timeouts.Settle,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidValue, name, d)
		}
	}

	if err := c.Page.validate(); err != nil {
		return err
	}

	switch strings.ToLower(c.Output.Format) {
	case "", "pdf", "html":
	default:
		return fmt.Errorf("%w: output.format %q (must be pdf or html)", ErrInvalidValue, c.Output.Format)
	}

	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes must not be negative", ErrInvalidValue)
	}
	if c.Server.Workers < 0 || c.Server.Workers > MaxWorkers {
		return fmt.Errorf("%w: server.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Server.Workers)
	}
	return nil
}

func (p PageConfig) validate() error {
	for name, v := range map[string]int{
		"page.widthPx":        p.WidthPx,
		"page.heightPx":       p.HeightPx,
		"page.marginTopPx":    p.MarginTopPx,
		"page.marginBottomPx": p.MarginBottomPx,
	} {
		if v < 0 || v > MaxPageDimPx {
			return fmt.Errorf("%w: %s must be between 0 and %d, got %d", ErrInvalidValue, name, MaxPageDimPx, v)
		}
	}
	if p.HeightPx > 0 && p.MarginTopPx+p.MarginBottomPx >= p.HeightPx {
		return fmt.Errorf("%w: page margins (%d+%d) leave no room in a %dpx page",
			ErrInvalidValue, p.MarginTopPx, p.MarginBottomPx, p.HeightPx)
	}
	if p.Scale != 0 && (p.Scale < MinScale || p.Scale > MaxScale) {
		return fmt.Errorf("%w: page.scale must be between %.0f and %.0f, got %.2f", ErrInvalidValue, MinScale, MaxScale, p.Scale)
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig reads a config by path (anything containing a separator or
// ending in .yaml/.yml) or by name, searched with SearchPaths. A missing file is an error; there is
// no silent fallback to defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isPath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := yamlutil.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order: the
// current directory, then the user config directory, each with .yaml then
// .yml.
func SearchPaths(name string) []string {
	exts := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}

func isPath(s string) bool {
	return fileutil.IsFilePath(s) || fileutil.HasExtension(s, ".yaml", ".yml")
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
