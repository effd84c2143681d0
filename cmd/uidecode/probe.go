// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/binhash"
	"github.com/bureau-foundation/uidecode/lib/decoder"
	"github.com/bureau-foundation/uidecode/lib/filetask"
)

type probeParams struct {
	cli.JSONOutput
}

// probeEntry is one probed file.
type probeEntry struct {
	Path        string `json:"path"`
	Version     int    `json:"version,omitempty"`
	FullVersion string `json:"full_version,omitempty"`
	Dialect     string `json:"dialect,omitempty"`
	Supported   bool   `json:"supported"`
	RootEntry   bool   `json:"root_entry"`
	Digest      string `json:"digest,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (a *app) probeCommand() *cli.Command {
	var params probeParams
	return &cli.Command{
		Name:    "probe",
		Summary: "Print the version and dialect of files",
		Description: `Read the version header of each file and report the dialect the
decoder would use, whether a layout starts with a root entry, and the
content digest the batch catalog keys on. Nothing is decoded.`,
		Usage: "uidecode probe [flags] <file>...",
		Examples: []cli.Example{
			{Description: "Probe every layout of one game", Command: "uidecode probe data/alpha/*.ui"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("probe", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("probe needs at least one file")
			}
			return a.probe(args, params, logger)
		},
	}
}

func (a *app) probe(paths []string, params probeParams, logger *slog.Logger) error {
	entries := make([]probeEntry, 0, len(paths))
	failed := 0
	for _, path := range paths {
		entry := probeFile(path)
		if entry.Error != "" {
			failed++
			logger.Warn("probe failed", "path", path, "error", entry.Error)
		}
		entries = append(entries, entry)
	}

	if done, err := params.EmitJSON(a.stdout, entries); done {
		if err != nil {
			return err
		}
	} else {
		writer := tabwriter.NewWriter(a.stdout, 2, 0, 2, ' ', 0)
		fmt.Fprintln(writer, "PATH\tVERSION\tDIALECT\tROOT\tDIGEST")
		for _, entry := range entries {
			if entry.Error != "" {
				fmt.Fprintf(writer, "%s\t-\t-\t-\t%s\n", entry.Path, entry.Error)
				continue
			}
			dialect := entry.Dialect
			if !entry.Supported {
				dialect = "unsupported"
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
				entry.Path, entry.FullVersion, dialect, strconv.FormatBool(entry.RootEntry), entry.Digest[:16])
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}

	if failed > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

func probeFile(path string) probeEntry {
	entry := probeEntry{Path: path}
	content, err := filetask.LoadFile(path)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	defer content.Close()

	entry.Digest = binhash.Sum(content.Data).String()
	result, err := decoder.Probe(content.Data)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	entry.Version = result.Version
	entry.FullVersion = filetask.FullVersion(filetask.KindOf(path), result.Version)
	entry.Supported = result.Supported
	entry.RootEntry = result.HasRoot
	if result.Supported {
		entry.Dialect = result.Dialect.String()
	}
	return entry
}
