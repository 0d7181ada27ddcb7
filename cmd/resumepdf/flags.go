package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// browserFlags select and configure the Chromium instance.
type browserFlags struct {
	bin       string
	remote    string
	noSandbox bool
}

// styleFlags select the stylesheet and asset overrides.
type styleFlags struct {
	name      string
	assetPath string
	css       string // path to an extra CSS file
}

// documentFlags set PDF metadata and the rendered résumé language.
type documentFlags struct {
	title  string
	author string
	lang   string
}

type exportFlags struct {
	common   commonFlags
	browser  browserFlags
	style    styleFlags
	document documentFlags
	output   string
	format   string
	workers  int
	timeout  time.Duration
}

type serveFlags struct {
	common   commonFlags
	browser  browserFlags
	style    styleFlags
	document documentFlags
	addr     string
	workers  int
	maxBody  int64
	timeout  time.Duration
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chromium executable")
	fs.StringVar(&f.remote, "remote-browser", "", "DevTools URL of a running browser")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chromium sandbox")
}

func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.name, "style", "", "style name or .css path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with styles/ and templates/ overrides")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended to the style")
}

func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "document title (default: résumé name)")
	fs.StringVar(&f.author, "author", "", "PDF author")
	fs.StringVar(&f.lang, "lang", "", "document language")
}

// newFlagSet returns a silent set: callers print usage and errors.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

func parseExportFlags(args []string) (*exportFlags, []string, error) {
	fs := newFlagSet("export")
	f := &exportFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, html")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "export timeout (e.g. 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addBrowserFlags(fs, &f.browser)
	addStyleFlags(fs, &f.style)
	addDocumentFlags(fs, &f.document)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseServeFlags(args []string) (*serveFlags, error) {
	fs := newFlagSet("serve")
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent exports (0 = auto)")
	fs.Int64Var(&f.maxBody, "max-body", 0, "request body limit in bytes")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-request export timeout")

	addCommonFlags(fs, &f.common)
	addBrowserFlags(fs, &f.browser)
	addStyleFlags(fs, &f.style)
	addDocumentFlags(fs, &f.document)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
