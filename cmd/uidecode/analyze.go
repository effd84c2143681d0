// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/analysis"
	"github.com/bureau-foundation/uidecode/lib/codec"
	"github.com/bureau-foundation/uidecode/lib/markup"
)

type analyzeParams struct {
	configParams
	Output      string `flag:"output,o" desc:"write the report to this file instead of stdout"`
	Compression string `flag:"compression" desc:"compress --output: none, lz4, or zstd (default: from the file suffix)"`
	Color       string `flag:"color" desc:"highlight stdout: auto, always, or never (default: output.color)"`
	Summary     string `flag:"summary" desc:"write the CBOR block summary to this file; - prints it in diagnostic notation instead of the report"`
}

func (a *app) analyzeCommand() *cli.Command {
	var params analyzeParams
	return &cli.Command{
		Name:    "analyze",
		Summary: "Run the heuristic analyzer on one file",
		Description: `Discover strings, images, lists, and headers in one file without a
grammar, and report the whole buffer as typed blocks. Bytes no block
covers are reported as hex dumps.

This works on any version, including ones the decoder does not know.`,
		Usage: "uidecode analyze [flags] <file>",
		Examples: []cli.Example{
			{Description: "Print the block report", Command: "uidecode analyze data/alpha/legacy.ui"},
			{Description: "Inspect the machine-readable summary", Command: "uidecode analyze --summary - data/alpha/legacy.ui"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("analyze", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("analyze takes exactly one file, got %d arguments", len(args))
			}
			return a.analyze(args[0], params, logger)
		},
	}
}

func (a *app) analyze(path string, params analyzeParams, logger *slog.Logger) error {
	cfg, err := params.load()
	if err != nil {
		return err
	}
	color := params.Color
	if color == "" {
		color = cfg.Output.Color
	}
	profile, err := a.profile(color)
	if err != nil {
		return err
	}

	content, err := loadInput(path)
	if err != nil {
		return err
	}
	defer content.Close()

	analyzer := analysis.New(content.Data, analysis.Options{Logger: logger})
	attrs := []any{"path", path, "size", analyzer.Size()}

	if params.Summary != "" {
		encoded, err := analyzer.EncodeSummary()
		if err != nil {
			return cli.Internal("encoding summary: %w", err)
		}
		if params.Summary == "-" {
			diagnostic, err := codec.Diagnose(encoded)
			if err != nil {
				return cli.Internal("formatting summary: %w", err)
			}
			fmt.Fprintln(a.stdout, diagnostic)
			if params.Output == "" {
				logger.Info("analyzed", append(attrs, "fully_decoded", analyzer.FullyDecoded())...)
				return nil
			}
		} else if err := os.WriteFile(params.Summary, encoded, 0o644); err != nil {
			return cli.Internal("writing summary: %w", err)
		}
	}

	writer, finish, err := a.documentWriter(params.Output, params.Compression, profile)
	if err != nil {
		return err
	}
	sink := markup.New(writer)
	reportErr := analyzer.Report(sink)
	if err := errors.Join(reportErr, finish()); err != nil {
		return cli.Internal("writing report: %w", err)
	}

	logger.Info("analyzed", append(attrs,
		"blocks", len(analyzer.Blocks()),
		"fully_decoded", analyzer.FullyDecoded(),
	)...)
	return nil
}
