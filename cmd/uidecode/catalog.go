// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/catalog"
	"github.com/bureau-foundation/uidecode/lib/summary"
)

// catalogParams selects the catalog file.
type catalogParams struct {
	configParams
	Catalog string `flag:"catalog" desc:"result catalog file (default: from the config file)"`
}

// open opens the catalog named by --catalog or the config file.
func (p catalogParams) open(a *app, logger *slog.Logger) (*catalog.Catalog, error) {
	path := p.Catalog
	if path == "" {
		cfg, err := p.load()
		if err != nil {
			return nil, err
		}
		path = cfg.CatalogPath()
	}
	if path == "" {
		return nil, cli.Validation("no catalog location").
			WithHint("Pass --catalog, or --config with paths.output or paths.catalog set.")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, cli.NotFound("catalog %s: %w", path, err).
			WithHint("Run 'uidecode batch' to create it.")
	}
	results, err := catalog.Open(catalog.Config{Path: path, Clock: a.clock, Logger: logger})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	return results, nil
}

func (a *app) catalogCommand() *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Summary: "Inspect recorded batch results",
		Description: `Read the result catalog written by "uidecode batch": the list of runs,
the per-version result matrix of a run, and the record of one file.`,
		Subcommands: []*cli.Command{
			a.catalogVersionsCommand(),
			a.catalogRunsCommand(),
			a.catalogShowCommand(),
		},
	}
}

type catalogVersionsParams struct {
	catalogParams
	Run    int64  `flag:"run" desc:"run ID (default: the latest run)"`
	Format string `flag:"format" default:"markdown" desc:"markdown or html"`
	Output string `flag:"output,o" desc:"write the summary to this file instead of stdout"`
}

func (a *app) catalogVersionsCommand() *cli.Command {
	var params catalogVersionsParams
	return &cli.Command{
		Name:    "versions",
		Summary: "Print the per-version result matrix of a run",
		Usage:   "uidecode catalog versions [flags]",
		Examples: []cli.Example{
			{Description: "Summarize the latest run", Command: "uidecode catalog versions --catalog out/catalog.sqlite"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("versions", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			format, err := summary.ParseFormat(params.Format)
			if err != nil {
				return cli.Validation("--format: %w", err)
			}
			results, err := params.open(a, logger)
			if err != nil {
				return err
			}
			defer results.Close()
			return a.writeSummary(ctx, results, params.Run, format, params.Output)
		},
	}
}

// writeSummary renders the summary of run runID (the latest when zero)
// to path, or to stdout when path is empty.
func (a *app) writeSummary(ctx context.Context, results *catalog.Catalog, runID int64, format summary.Format, path string) error {
	run, err := lookupRun(ctx, results, runID)
	if err != nil {
		return err
	}
	versions, err := results.Versions(ctx, run.ID)
	if err != nil {
		return cli.Internal("%w", err)
	}
	var failures []catalog.File
	for _, status := range []catalog.Status{catalog.StatusFailed, catalog.StatusMalformed} {
		files, err := results.Files(ctx, catalog.Query{RunID: run.ID, Status: status})
		if err != nil {
			return cli.Internal("%w", err)
		}
		failures = append(failures, files...)
	}
	slices.SortFunc(failures, func(x, y catalog.File) int { return cmp.Compare(x.Path, y.Path) })

	report := summary.Report{Run: run, Versions: versions, Failures: failures}
	if path == "" {
		return summary.Write(a.stdout, report, format)
	}
	file, err := os.Create(path)
	if err != nil {
		return cli.Internal("creating summary: %w", err)
	}
	if err := errors.Join(summary.Write(file, report, format), file.Close()); err != nil {
		return cli.Internal("writing summary: %w", err)
	}
	return nil
}

func lookupRun(ctx context.Context, results *catalog.Catalog, runID int64) (catalog.Run, error) {
	var run catalog.Run
	var err error
	if runID == 0 {
		run, err = results.LatestRun(ctx)
	} else {
		run, err = results.Run(ctx, runID)
	}
	if errors.Is(err, catalog.ErrNotFound) {
		if runID == 0 {
			return run, cli.NotFound("the catalog has no runs").WithHint("Run 'uidecode batch' first.")
		}
		return run, cli.NotFound("run %d not found", runID).
			WithHint("Run 'uidecode catalog runs' to list recorded runs.")
	}
	if err != nil {
		return run, cli.Internal("%w", err)
	}
	return run, nil
}

type catalogRunsParams struct {
	catalogParams
	cli.JSONOutput
	Limit int `flag:"limit" default:"20" desc:"number of runs to list, newest first (0 for all)"`
}

// runEntry is the JSON form of a run.
type runEntry struct {
	ID         int64      `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Root       string     `json:"root"`
	Forensic   bool       `json:"forensic"`
	Files      int        `json:"files"`
}

func (a *app) catalogRunsCommand() *cli.Command {
	var params catalogRunsParams
	return &cli.Command{
		Name:    "runs",
		Summary: "List recorded runs",
		Usage:   "uidecode catalog runs [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("runs", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			results, err := params.open(a, logger)
			if err != nil {
				return err
			}
			defer results.Close()

			runs, err := results.Runs(ctx, params.Limit)
			if err != nil {
				return cli.Internal("%w", err)
			}
			entries := make([]runEntry, 0, len(runs))
			for _, run := range runs {
				entry := runEntry{ID: run.ID, StartedAt: run.StartedAt, Root: run.Root, Forensic: run.Forensic, Files: run.Files}
				if run.Finished() {
					finished := run.FinishedAt
					entry.FinishedAt = &finished
				}
				entries = append(entries, entry)
			}
			if done, err := params.EmitJSON(a.stdout, entries); done {
				return err
			}

			writer := tabwriter.NewWriter(a.stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tSTARTED\tELAPSED\tFILES\tMODE\tROOT")
			for _, run := range runs {
				elapsed := "unfinished"
				if run.Finished() {
					elapsed = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
				}
				mode := "decode"
				if run.Forensic {
					mode = "forensic"
				}
				fmt.Fprintf(writer, "%d\t%s\t%s\t%d\t%s\t%s\n",
					run.ID, run.StartedAt.UTC().Format(time.RFC3339), elapsed, run.Files, mode, run.Root)
			}
			return writer.Flush()
		},
	}
}

type catalogShowParams struct {
	catalogParams
	cli.JSONOutput
	Run int64 `flag:"run" desc:"run ID (default: the latest run)"`
}

// fileEntry is the JSON form of a file record.
type fileEntry struct {
	RunID         int64          `json:"run_id"`
	Path          string         `json:"path"`
	Game          string         `json:"game"`
	Kind          string         `json:"kind"`
	Version       int            `json:"version"`
	FullVersion   string         `json:"full_version,omitempty"`
	Dialect       string         `json:"dialect,omitempty"`
	Status        string         `json:"status"`
	ErrorKind     string         `json:"error_kind,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	FailureOffset int            `json:"failure_offset,omitempty"`
	Checkpoint    int            `json:"checkpoint,omitempty"`
	Unparsed      int            `json:"unparsed,omitempty"`
	FullyDecoded  bool           `json:"fully_decoded"`
	Digest        string         `json:"digest"`
	Output        string         `json:"output,omitempty"`
	Duration      string         `json:"duration"`
	Reused        bool           `json:"reused"`
	Blocks        map[string]int `json:"blocks,omitempty"`
}

func (a *app) catalogShowCommand() *cli.Command {
	var params catalogShowParams
	return &cli.Command{
		Name:    "show",
		Summary: "Print the recorded result of one file",
		Description: `Print the catalog record of one input file: version, dialect, status,
failure details, and for analyzed files the block counts of the stored
analyzer summary. The path must be given as it was recorded, under the
run's data root.`,
		Usage: "uidecode catalog show [flags] <path>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("show takes exactly one path, got %d arguments", len(args))
			}
			results, err := params.open(a, logger)
			if err != nil {
				return err
			}
			defer results.Close()

			run, err := lookupRun(ctx, results, params.Run)
			if err != nil {
				return err
			}
			file, err := results.File(ctx, run.ID, args[0])
			if errors.Is(err, catalog.ErrNotFound) {
				return cli.NotFound("%s is not recorded in run %d", args[0], run.ID)
			}
			if err != nil {
				return cli.Internal("%w", err)
			}

			entry := newFileEntry(file)
			if len(file.Summary) > 0 {
				decoded, err := file.DecodeSummary()
				if err != nil {
					logger.Warn("stored summary is unreadable", "path", file.Path, "error", err)
				} else {
					entry.Blocks = decoded.Counts
				}
			}
			if done, err := params.EmitJSON(a.stdout, entry); done {
				return err
			}
			return printFileEntry(a, entry)
		},
	}
}

func newFileEntry(file catalog.File) fileEntry {
	return fileEntry{
		RunID:         file.RunID,
		Path:          file.Path,
		Game:          file.Game,
		Kind:          file.Kind,
		Version:       file.Version,
		FullVersion:   file.FullVersion,
		Dialect:       file.Dialect,
		Status:        string(file.Status),
		ErrorKind:     file.ErrorKind,
		ErrorMessage:  file.ErrorMessage,
		FailureOffset: file.FailureOffset,
		Checkpoint:    file.Checkpoint,
		Unparsed:      file.Unparsed,
		FullyDecoded:  file.FullyDecoded,
		Digest:        file.Digest.String(),
		Output:        file.Output,
		Duration:      file.Duration.String(),
		Reused:        file.Reused,
	}
}

func printFileEntry(a *app, entry fileEntry) error {
	writer := tabwriter.NewWriter(a.stdout, 2, 0, 2, ' ', 0)
	row := func(name string, value any) { fmt.Fprintf(writer, "%s:\t%v\n", name, value) }

	row("path", entry.Path)
	row("run", entry.RunID)
	row("game", entry.Game)
	row("version", cmp.Or(entry.FullVersion, "-"))
	row("dialect", cmp.Or(entry.Dialect, "-"))
	row("status", entry.Status)
	if entry.ErrorKind != "" {
		row("error", fmt.Sprintf("%s at offset %d", entry.ErrorKind, entry.FailureOffset))
		row("message", entry.ErrorMessage)
		row("checkpoint", entry.Checkpoint)
	}
	if entry.Unparsed > 0 {
		row("unparsed", fmt.Sprintf("%d bytes", entry.Unparsed))
	}
	row("fully decoded", entry.FullyDecoded)
	row("digest", entry.Digest)
	if entry.Output != "" {
		row("output", entry.Output)
	}
	row("duration", entry.Duration)
	if entry.Reused {
		row("reused", true)
	}
	if len(entry.Blocks) > 0 {
		kinds := make([]string, 0, len(entry.Blocks))
		for kind := range entry.Blocks {
			kinds = append(kinds, kind)
		}
		slices.Sort(kinds)
		for _, kind := range kinds {
			row("blocks "+kind, entry.Blocks[kind])
		}
	}
	return writer.Flush()
}
