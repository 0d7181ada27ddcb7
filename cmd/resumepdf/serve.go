package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/config"
	"github.com/alnah/go-resumepdf/internal/server"
)

// shutdownTimeout bounds draining in-flight exports after a signal.
const shutdownTimeout = 30 * time.Second

func runServeCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseServeFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printServeUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printServeUsage(env.Stderr)
		return ExitUsage
	}

	if err := runServe(ctx, flags, env); err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func runServe(ctx context.Context, flags *serveFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	cfg, name, err := loadSettings(flags.common.config, env)
	if err != nil {
		return configError(err, name)
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newServerLogger(env, flags.common)
	size := resumepdf.ResolvePoolSize(cfg.Server.Workers)
	pool := resumepdf.NewExporterPool(size, exporterOptions(cfg, logger, env.Now)...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("server: closing exporters", "error", err)
		}
	}()

	handler := server.New(pool, logger, server.Config{MaxBodyBytes: cfg.Server.MaxBodyBytes})

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}
	logger.Info("server: listening", "addr", ln.Addr().String(), "workers", size)
	return serve(ctx, ln, handler, logger)
}

// mergeServeFlags merges CLI flags into config. CLI values win.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	mergeBrowserFlags(f.browser, cfg)
	mergeStyleFlags(f.style, cfg)
	mergeDocumentFlags(f.document, cfg)
	setString(&cfg.Server.Addr, f.addr)
	if f.workers > 0 {
		cfg.Server.Workers = f.workers
	}
	if f.maxBody > 0 {
		cfg.Server.MaxBodyBytes = f.maxBody
	}
	if f.timeout > 0 {
		cfg.Timeouts.Export = f.timeout
	}
}

// serve runs handler on ln until ctx is done, then drains in-flight
// requests for up to shutdownTimeout.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newServerLogger writes JSON logs to stdout for log collectors.
func newServerLogger(env *Environment, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(env.Stdout, &slog.HandlerOptions{Level: level}))
}
