// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/muesli/termenv"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/clock"
	"github.com/bureau-foundation/uidecode/lib/compress"
	"github.com/bureau-foundation/uidecode/lib/config"
	"github.com/bureau-foundation/uidecode/lib/viewer"
)

// app holds what commands share: where output goes and the clock.
type app struct {
	stdout io.Writer
	// terminal is stdout as a file, for color and TUI detection. Nil
	// when stdout is not a file (tests).
	terminal *os.File
	clock    clock.Clock
}

func (a *app) root() *cli.Command {
	return &cli.Command{
		Name: "uidecode",
		Description: `Decode the engine's binary UI layout (.ui), font catalog (.fc), and
key/value config (.cml) files into annotated markup.`,
		Subcommands: []*cli.Command{
			a.convertCommand(),
			a.analyzeCommand(),
			a.probeCommand(),
			a.batchCommand(),
			a.catalogCommand(),
			a.viewCommand(),
		},
	}
}

// configParams adds --config to a command.
type configParams struct {
	Config string `flag:"config" desc:"path to uidecode.yaml (default: $UIDECODE_CONFIG, else built-in defaults)"`
}

// load returns the configuration from --config, from UIDECODE_CONFIG,
// or the defaults when neither is set.
func (p configParams) load() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.Config != "":
		cfg, err = config.LoadFile(p.Config)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, cli.Validation("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config: %w", err)
	}
	return cfg, nil
}

// profile returns the color profile for documents printed to stdout.
func (a *app) profile(mode string) (termenv.Profile, error) {
	switch mode {
	case viewer.ColorAuto, viewer.ColorAlways, viewer.ColorNever, "":
	default:
		return termenv.Ascii, cli.Validation("unknown color mode %q (want auto, always, or never)", mode)
	}
	if a.terminal == nil {
		if mode == viewer.ColorAlways {
			return termenv.ANSI256, nil
		}
		return termenv.Ascii, nil
	}
	profile, err := viewer.ProfileFor(mode, a.terminal)
	if err != nil {
		return termenv.Ascii, cli.Validation("%w", err)
	}
	return profile, nil
}

// documentWriter returns where a document goes and a function that
// finishes it. A path writes a file, compressed per compression or,
// when that is empty, per the file's suffix. No path writes stdout,
// syntax-highlighted for profile.
func (a *app) documentWriter(path, compression string, profile termenv.Profile) (io.Writer, func() error, error) {
	if path == "" {
		if profile == termenv.Ascii {
			return a.stdout, func() error { return nil }, nil
		}
		var buffer bytes.Buffer
		return &buffer, func() error {
			return viewer.Highlight(a.stdout, buffer.String(), profile)
		}, nil
	}

	tag := compress.TagForPath(path)
	if compression != "" {
		var err error
		if tag, err = compress.ParseTag(compression); err != nil {
			return nil, nil, cli.Validation("--compression: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, cli.Internal("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, cli.Internal("creating output: %w", err)
	}
	writer, err := compress.NewWriter(file, tag)
	if err != nil {
		file.Close()
		return nil, nil, cli.Internal("opening %s stream: %w", tag, err)
	}
	return writer, func() error {
		writeErr := writer.Close()
		closeErr := file.Close()
		if err := errors.Join(writeErr, closeErr); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	}, nil
}
