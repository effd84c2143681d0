// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/batch"
	"github.com/bureau-foundation/uidecode/lib/catalog"
	"github.com/bureau-foundation/uidecode/lib/compress"
	"github.com/bureau-foundation/uidecode/lib/config"
	"github.com/bureau-foundation/uidecode/lib/filetask"
	"github.com/bureau-foundation/uidecode/lib/summary"
)

type batchParams struct {
	configParams
	Data        string        `flag:"data" desc:"data root (overrides paths.data)"`
	Output      string        `flag:"output" desc:"output root for documents (overrides paths.output)"`
	Catalog     string        `flag:"catalog" desc:"result catalog file (overrides paths.catalog)"`
	Workers     int           `flag:"workers" desc:"concurrent conversions (overrides batch.workers)"`
	Timeout     time.Duration `flag:"timeout" desc:"per-file time budget (overrides batch.per_file_timeout)"`
	Games       []string      `flag:"games" desc:"only these game directories (overrides batch.games)"`
	Fuzzy       bool          `flag:"fuzzy" desc:"match --games as fuzzy patterns"`
	Extensions  []string      `flag:"extensions" desc:"only files with these extensions (overrides batch.extensions)"`
	Forensic    bool          `flag:"forensic" desc:"run the analyzer on every file"`
	Force       bool          `flag:"force" desc:"reconvert files whose digest is unchanged since the last run"`
	Compression string        `flag:"compression" desc:"compress documents: none, lz4, or zstd (overrides output.compression)"`
	Format      string        `flag:"format" default:"markdown" desc:"run summary format: markdown or html"`
	Summary     string        `flag:"summary" desc:"write the run summary to this file instead of stdout"`
}

// apply overrides cfg with the flags that were set.
func (p batchParams) apply(cfg *config.Config) {
	if p.Data != "" {
		cfg.Paths.Data = p.Data
	}
	if p.Output != "" {
		cfg.Paths.Output = p.Output
	}
	if p.Catalog != "" {
		cfg.Paths.Catalog = p.Catalog
	}
	if p.Workers != 0 {
		cfg.Batch.Workers = p.Workers
	}
	if p.Timeout != 0 {
		cfg.Batch.PerFileTimeout = p.Timeout.String()
	}
	if len(p.Games) > 0 {
		cfg.Batch.Games = p.Games
	}
	if p.Fuzzy {
		cfg.Batch.FuzzyGames = true
	}
	if len(p.Extensions) > 0 {
		cfg.Batch.Extensions = p.Extensions
	}
	if p.Forensic {
		cfg.Batch.Forensic = true
	}
	if p.Force {
		cfg.Batch.Force = true
	}
	if p.Compression != "" {
		cfg.Output.Compression = p.Compression
	}
	cfg.Expand()
}

func (a *app) batchCommand() *cli.Command {
	var params batchParams
	return &cli.Command{
		Name:    "batch",
		Summary: "Convert a whole data tree and record the results",
		Description: `Walk the data root, convert every matching file on a worker pool, and
mirror the documents into the output root. Every result is recorded in
the catalog; files whose content digest did not change since the last
run are carried over without reconverting.

The run ends with a per-version summary: how many files of each
version decoded, failed, or were left to the analyzer.`,
		Usage: "uidecode batch [flags]",
		Examples: []cli.Example{
			{Description: "Convert everything configured in uidecode.yaml", Command: "uidecode batch --config uidecode.yaml"},
			{Description: "Find unsupported versions in two games", Command: "uidecode batch --data ./data --output ./out --games alpha,beta --extensions ui"},
			{Description: "Write an HTML report", Command: "uidecode batch --config uidecode.yaml --format html --summary report.html"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("batch", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return a.batch(ctx, params, logger)
		},
	}
}

func (a *app) batch(ctx context.Context, params batchParams, logger *slog.Logger) error {
	format, err := summary.ParseFormat(params.Format)
	if err != nil {
		return cli.Validation("--format: %w", err)
	}
	cfg, err := params.load()
	if err != nil {
		return err
	}
	params.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return cli.Validation("invalid settings: %w", err)
	}
	if cfg.Paths.Data == "" {
		return cli.Validation("no data root").
			WithHint("Pass --data or set paths.data in the config file.")
	}
	if cfg.CatalogPath() == "" {
		return cli.Validation("no catalog location").
			WithHint("Pass --output or --catalog, or set paths.output in the config file.")
	}
	timeout, err := cfg.PerFileTimeout()
	if err != nil {
		return cli.Validation("%w", err)
	}
	tag, err := compress.ParseTag(cfg.Output.Compression)
	if err != nil {
		return cli.Validation("%w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cli.Internal("%w", err)
	}

	set, err := filetask.Discover(cfg.Paths.Data, filetask.Filter{
		Games:      cfg.Batch.Games,
		Fuzzy:      cfg.Batch.FuzzyGames,
		Extensions: cfg.Batch.Extensions,
	})
	if errors.Is(err, fs.ErrNotExist) {
		return cli.NotFound("data root %s does not exist", cfg.Paths.Data)
	}
	if err != nil {
		return cli.Internal("walking %s: %w", cfg.Paths.Data, err)
	}
	logger.Info("discovered files", "root", set.Root, "files", set.Len(), "games", len(set.Games()))

	results, err := catalog.Open(catalog.Config{
		Path:               cfg.CatalogPath(),
		SummaryCompression: tag,
		Clock:              a.clock,
		Logger:             logger,
	})
	if err != nil {
		return cli.Internal("%w", err)
	}
	defer results.Close()

	runner, err := batch.New(batch.Config{
		Workers:        cfg.Batch.Workers,
		PerFileTimeout: timeout,
		OutputRoot:     cfg.Paths.Output,
		Compression:    tag,
		Forensic:       cfg.Batch.Forensic,
		Force:          cfg.Batch.Force,
		Catalog:        results,
		Clock:          a.clock,
		Logger:         logger,
	})
	if err != nil {
		return cli.Internal("%w", err)
	}
	report, err := runner.Run(ctx, set)
	if err != nil {
		return cli.Internal("%w", err)
	}

	return a.writeSummary(ctx, results, report.RunID, format, params.Summary)
}
