package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-resumepdf/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()
	setMaxProcs(env.Stderr, hasVerboseFlag(os.Args[1:]))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args, env)
	stop()
	os.Exit(code)
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota. Errors only
// happen with an invalid GOMAXPROCS env, where runtime defaults apply.
func setMaxProcs(w io.Writer, verbose bool) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// run dispatches to a subcommand and returns the process exit code.
// Without a known command, the arguments are treated as an export.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "export":
		return runExportCmd(ctx, rest, env)
	case "serve":
		return runServeCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "help", "-h", "--help":
		return runHelpCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "resumepdf %s\n", Version)
		return ExitSuccess
	}

	if isExportArg(cmd) {
		return runExportCmd(ctx, args[1:], env)
	}
	fmt.Fprintf(env.Stderr, "unknown command %q\n\n", cmd)
	printUsage(env.Stderr)
	return ExitUsage
}

// isExportArg reports whether arg starts an implicit export: a flag, an
// existing path, or a file with an input extension.
func isExportArg(arg string) bool {
	if len(arg) > 0 && arg[0] == '-' {
		return true
	}
	if _, err := os.Stat(arg); err == nil {
		return true
	}
	return fileutil.IsFilePath(arg) || fileutil.HasExtension(arg, inputExtensions...)
}
