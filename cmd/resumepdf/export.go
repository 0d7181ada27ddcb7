package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/config"
)

// Sentinel errors for the export command.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrNoFiles     = errors.New("no résumé files found")
	ErrReadInput   = errors.New("failed to read input file")
	ErrReadCSS     = errors.New("failed to read CSS file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// exportParams are shared by every file of a batch.
type exportParams struct {
	format resumepdf.Format
	css    string
}

func runExportCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseExportFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printExportUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printExportUsage(env.Stderr)
		return ExitUsage
	}

	if err := runExport(ctx, flags, positional, env); err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func runExport(ctx context.Context, flags *exportFlags, positional []string, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	logger := newLogger(env.Stderr, flags.common)

	cfg, name, err := loadSettings(flags.common.config, env)
	if err != nil {
		return configError(err, name)
	}
	mergeExportFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	format, err := resumepdf.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	css, err := resolveExtraCSS(flags.style.css, cfg.Style.CSS)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	files, err := discoverFiles(inputPath, resolveOutputDir(flags.output, cfg), format)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}

	workers := flags.workers
	if workers == 0 {
		workers = cfg.Server.Workers
	}
	size := min(resumepdf.ResolvePoolSize(workers), len(files))
	logger.Debug("cli: starting export", "files", len(files), "workers", size, "format", format)

	pool := env.NewPool(size, exporterOptions(cfg, logger, env.Now)...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("cli: closing exporters", "error", err)
		}
	}()

	results := exportBatch(ctx, pool, files, &exportParams{format: format, css: css})
	return reportResults(env, results, flags.common.quiet)
}

// mergeExportFlags merges CLI flags into config. CLI values win.
func mergeExportFlags(f *exportFlags, cfg *config.Config) {
	mergeBrowserFlags(f.browser, cfg)
	mergeStyleFlags(f.style, cfg)
	mergeDocumentFlags(f.document, cfg)
	setString(&cfg.Output.Format, f.format)
	if f.timeout > 0 {
		cfg.Timeouts.Export = f.timeout
	}
}

// resolveExtraCSS joins the config's inline CSS with the --css file.
func resolveExtraCSS(path, inline string) (string, error) {
	if path == "" {
		return inline, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	if inline == "" {
		return string(data), nil
	}
	return inline + "\n" + string(data), nil
}

// resolveInputPath picks the positional argument, then input.defaultDir.
func resolveInputPath(positional []string, cfg *config.Config) (string, error) {
	if len(positional) > 1 {
		return "", fmt.Errorf("expected one input, got %d: %s", len(positional), strings.Join(positional, " "))
	}
	if len(positional) == 1 {
		return positional[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
