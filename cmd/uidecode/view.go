// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/batch"
	"github.com/bureau-foundation/uidecode/lib/catalog"
	"github.com/bureau-foundation/uidecode/lib/compress"
	"github.com/bureau-foundation/uidecode/lib/decoder"
	"github.com/bureau-foundation/uidecode/lib/filetask"
	"github.com/bureau-foundation/uidecode/lib/markup"
	"github.com/bureau-foundation/uidecode/lib/viewer"
)

type viewParams struct {
	configParams
	Forensic bool `flag:"forensic" desc:"show the analyzer report even when the decoder knows the version"`
}

func (a *app) viewCommand() *cli.Command {
	var params viewParams
	return &cli.Command{
		Name:    "view",
		Summary: "Browse a document in an interactive pager",
		Description: `Open a document in a full-screen pager with syntax colors and fuzzy
line search (press / to search, n and N to walk matches, ? for keys).

The argument is either an input file, which is converted in memory the
way "convert" does, or a document written by "convert" or "batch"
(.xml, optionally .xml.lz4 or .xml.zst).`,
		Usage: "uidecode view [flags] <file>",
		Examples: []cli.Example{
			{Description: "Convert and browse a layout", Command: "uidecode view data/alpha/menu.ui"},
			{Description: "Browse a stored batch document", Command: "uidecode view out/alpha/menu.ui.xml.zst"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("view", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("view takes exactly one file, got %d arguments", len(args))
			}
			if a.terminal == nil {
				return cli.Validation("view needs a terminal")
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			document, err := loadDocument(args[0], params.Forensic, logger)
			if err != nil {
				return err
			}
			profile, err := viewer.ProfileFor(cfg.Output.Color, a.terminal)
			if err != nil {
				return cli.Validation("%w", err)
			}

			model := viewer.NewModel(document, viewer.Options{Profile: profile})
			program := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithOutput(a.terminal),
			)
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return cli.Internal("viewer: %w", err)
			}
			return nil
		},
	}
}

// isStoredDocument reports whether path names a written document
// rather than an input file.
func isStoredDocument(path string) bool {
	base := strings.TrimSuffix(path, compress.Extension(compress.TagForPath(path)))
	return strings.HasSuffix(base, batch.OutputSuffix)
}

// loadDocument reads a stored document or converts an input file.
// Conversion logs go to logger only at debug level, since the pager
// owns the screen.
func loadDocument(path string, forensic bool, logger *slog.Logger) (viewer.Document, error) {
	if isStoredDocument(path) {
		text, err := readStoredDocument(path)
		if err != nil {
			return viewer.Document{}, err
		}
		return viewer.Document{Title: path, Text: text}, nil
	}

	content, err := loadInput(path)
	if err != nil {
		return viewer.Document{}, err
	}
	defer content.Close()

	var buffer bytes.Buffer
	conversion := batch.Convert(content.Data, markup.New(&buffer), forensic, slog.New(slog.DiscardHandler))
	logger.Debug("converted for viewing", conversionAttrs(path, conversion)...)
	return viewer.Document{
		Title:  path,
		Status: string(conversion.Status),
		Detail: conversionDetail(path, conversion),
		Text:   buffer.String(),
	}, nil
}

func readStoredDocument(path string) (string, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", cli.NotFound("%s does not exist", path)
	}
	if err != nil {
		return "", cli.Internal("%w", err)
	}
	defer file.Close()

	tag := compress.TagForPath(path)
	reader, err := compress.NewReader(file, tag)
	if err != nil {
		return "", cli.Internal("opening %s stream: %w", tag, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", cli.Internal("reading %s: %w", path, err)
	}
	return string(data), nil
}

// conversionDetail is the header detail: the version and dialect, plus
// the error kind when the conversion failed.
func conversionDetail(path string, conversion batch.Conversion) string {
	var parts []string
	if conversion.Status != catalog.StatusMalformed {
		parts = append(parts, filetask.FullVersion(filetask.KindOf(path), conversion.Probe.Version))
	}
	if conversion.Probe.Supported {
		parts = append(parts, conversion.Probe.Dialect.String())
	}
	if conversion.Err != nil {
		parts = append(parts, string(decoder.Classify(conversion.Err)))
	}
	return strings.Join(parts, " ")
}
