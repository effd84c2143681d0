// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/batch"
	"github.com/bureau-foundation/uidecode/lib/catalog"
	"github.com/bureau-foundation/uidecode/lib/decoder"
	"github.com/bureau-foundation/uidecode/lib/filetask"
	"github.com/bureau-foundation/uidecode/lib/markup"
)

type convertParams struct {
	configParams
	Output      string `flag:"output,o" desc:"write the document to this file instead of stdout"`
	Compression string `flag:"compression" desc:"compress --output: none, lz4, or zstd (default: from the file suffix)"`
	Color       string `flag:"color" desc:"highlight stdout: auto, always, or never (default: output.color)"`
	Forensic    bool   `flag:"forensic" desc:"run the heuristic analyzer even when the decoder knows the version"`
}

func (a *app) convertCommand() *cli.Command {
	var params convertParams
	return &cli.Command{
		Name:    "convert",
		Summary: "Decode one file into markup",
		Description: `Decode one file with the grammar its version header selects and write
the markup document.

Versions the decoder does not know are run through the heuristic
analyzer instead, and the analyzer report is written. When decoding
fails part way, the document is still written up to the failing field,
followed by an <error> element with the message and hex dumps around
the failure; the command then exits with status 1.`,
		Usage: "uidecode convert [flags] <file>",
		Examples: []cli.Example{
			{Description: "Print a layout file with syntax colors", Command: "uidecode convert data/alpha/menu.ui"},
			{Description: "Store the document compressed", Command: "uidecode convert -o menu.xml.zst data/alpha/menu.ui"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("convert", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("convert takes exactly one file, got %d arguments", len(args))
			}
			return a.convert(args[0], params, logger)
		},
	}
}

func (a *app) convert(path string, params convertParams, logger *slog.Logger) error {
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

	writer, finish, err := a.documentWriter(params.Output, params.Compression, profile)
	if err != nil {
		return err
	}
	sink := markup.New(writer)
	conversion := batch.Convert(content.Data, sink, params.Forensic, logger)
	if err := errors.Join(sink.Err(), finish()); err != nil {
		return cli.Internal("writing document: %w", err)
	}
	return reportConversion(logger, path, conversion)
}

// loadInput reads an input file, mapping a missing file to NotFound.
func loadInput(path string) (*filetask.Content, error) {
	content, err := filetask.LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cli.NotFound("%s does not exist", path)
	}
	if err != nil {
		return nil, cli.Internal("reading %s: %w", path, err)
	}
	return content, nil
}

// conversionAttrs are the log attributes describing a conversion.
func conversionAttrs(path string, conversion batch.Conversion) []any {
	attrs := []any{"path", path, "status", string(conversion.Status)}
	if conversion.Status != catalog.StatusMalformed {
		attrs = append(attrs, "version", filetask.FullVersion(filetask.KindOf(path), conversion.Probe.Version))
	}
	if conversion.Probe.Supported {
		attrs = append(attrs, "dialect", conversion.Probe.Dialect.String())
	}
	return attrs
}

// reportConversion logs the outcome. A failed conversion has already
// written its diagnostic into the document, so it becomes a silent
// exit status.
func reportConversion(logger *slog.Logger, path string, conversion batch.Conversion) error {
	attrs := conversionAttrs(path, conversion)
	switch {
	case conversion.Err != nil:
		logger.Error("conversion failed", append(attrs,
			"error_kind", string(decoder.Classify(conversion.Err)),
			"offset", conversion.Result.Offset,
			"error", conversion.Err,
		)...)
		return &cli.ExitError{Code: 1}
	case conversion.Status == catalog.StatusUnsupported:
		logger.Warn("version not supported by the decoder, wrote the analyzer report", attrs...)
	case conversion.Result.Unparsed > 0:
		logger.Warn("bytes left after the root entry", append(attrs, "unparsed", conversion.Result.Unparsed)...)
	default:
		logger.Info("converted", attrs...)
	}
	return nil
}
