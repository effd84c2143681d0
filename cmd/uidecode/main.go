// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// uidecode decodes the engine's binary layout, font-catalog, and
// key/value config files into annotated markup.
//
// Single files go through "convert" (versioned decoder, with the
// heuristic analyzer for versions the decoder does not know), "analyze"
// (analyzer only), and "probe" (header only). "batch" walks a whole
// data tree on a worker pool, mirrors the documents into an output
// root, and records every result in a SQLite catalog; "catalog" reads
// the per-version results back. "view" opens a document in an
// interactive pager.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/clock"
)

// logLevelVariable selects the log level: debug, info, warn, or error.
const logLevelVariable = "UIDECODE_LOG_LEVEL"

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (convert on a decode
		// failure) return an ExitError with the desired code. Don't
		// print a redundant "error:" line for those.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

func run() error {
	level := slog.LevelInfo
	if value := os.Getenv(logLevelVariable); value != "" {
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return cli.Validation("%s: %w", logLevelVariable, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := &app{
		stdout:   os.Stdout,
		terminal: os.Stdout,
		clock:    clock.Real(),
	}
	return application.root().Execute(ctx, os.Args[1:], cli.NewCommandLogger(level))
}
