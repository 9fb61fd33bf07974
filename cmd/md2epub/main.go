package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Parse flags first to know whether maxprocs should log.
	// Parse errors are reported again by runMain.
	flags, _, _ := parseFlags(os.Args[1:])

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags != nil && flags.common.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the CLI with args (program name first) and returns the exit
// code.
func runMain(args []string, env *Environment) int {
	flags, positional, err := parseFlags(args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if flags.version {
		fmt.Fprintf(env.Stdout, "md2epub %s\n", Version)
		return ExitSuccess
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	warnUnknownEnvVars(logger)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runBuild(ctx, positional, flags, env, logger); err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// newLogger returns a text logger on w: errors only when quiet, everything
// when verbose, warnings and errors otherwise.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
