// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "uidecode",
		Subcommands: []*Command{
			{
				Name: "probe",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "probe"
					return nil
				},
			},
			{
				Name: "convert",
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					called = "convert"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"convert"}, discardLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "convert" {
		t.Errorf("dispatched to %q, want %q", called, "convert")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "uidecode",
		Subcommands: []*Command{
			{
				Name: "catalog",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
							called = "catalog show"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"catalog", "show", "extra-arg"}, discardLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "catalog show" {
		t.Errorf("dispatched to %q, want %q", called, "catalog show")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	type params struct {
		Output string `flag:"output,o" desc:"output file"`
	}
	var p params
	var receivedArgs []string

	command := &Command{
		Name: "convert",
		Flags: func() *pflag.FlagSet {
			return FlagsFromParams("convert", &p)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			receivedArgs = args
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"-o", "out.xml", "in.ui"}, discardLogger()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if p.Output != "out.xml" {
		t.Errorf("Output = %q, want %q", p.Output, "out.xml")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "in.ui" {
		t.Errorf("args = %v, want [in.ui]", receivedArgs)
	}
}

func TestCommand_Execute_UnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name:        "uidecode",
		Subcommands: []*Command{{Name: "convert"}, {Name: "analyze"}},
	}

	err := root.Execute(context.Background(), []string{"convrt"}, discardLogger())
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "convert"`) {
		t.Errorf("error %q missing suggestion", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error is not a validation ToolError: %#v", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	type params struct {
		Forensic bool `flag:"forensic" desc:"run the analyzer"`
	}
	var p params
	command := &Command{
		Name:  "batch",
		Flags: func() *pflag.FlagSet { return FlagsFromParams("batch", &p) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"--forensics"}, discardLogger())
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --forensic?") {
		t.Errorf("error %q missing suggestion", err)
	}
}

func TestCommand_Execute_HelpWritesToOutput(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:   "uidecode",
		Output: &output,
		Subcommands: []*Command{
			{
				Name:        "probe",
				Summary:     "Print the version and dialect of files",
				Description: "Read the header of each file.",
				Examples:    []Example{{Description: "Probe one file", Command: "uidecode probe a.ui"}},
				Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
					t.Error("Run called for --help")
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"--help"}, discardLogger()); err != nil {
		t.Fatalf("Execute(--help) error: %v", err)
	}
	if !strings.Contains(output.String(), "probe") || !strings.Contains(output.String(), "Print the version and dialect") {
		t.Errorf("root help missing subcommand listing:\n%s", output.String())
	}

	output.Reset()
	if err := root.Execute(context.Background(), []string{"probe", "-h"}, discardLogger()); err != nil {
		t.Fatalf("Execute(probe -h) error: %v", err)
	}
	for _, want := range []string{"Read the header of each file.", "Usage:\n  uidecode probe [flags]", "# Probe one file"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("probe help missing %q:\n%s", want, output.String())
		}
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	var output bytes.Buffer
	root := &Command{
		Name:        "uidecode",
		Output:      &output,
		Subcommands: []*Command{{Name: "catalog", Subcommands: []*Command{{Name: "versions"}}}},
	}
	err := root.Execute(context.Background(), []string{"catalog"}, discardLogger())
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Fatalf("error = %v, want subcommand required", err)
	}
	if !strings.Contains(output.String(), "uidecode catalog <command>") {
		t.Errorf("help not printed:\n%s", output.String())
	}
}

func TestCommand_Execute_LoggerScopedWithCommand(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	root := &Command{
		Name: "uidecode",
		Subcommands: []*Command{
			{
				Name: "catalog",
				Subcommands: []*Command{
					{
						Name: "show",
						Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
							logger.Info("hello")
							return nil
						},
					},
				},
			},
		},
	}
	if err := root.Execute(context.Background(), []string{"catalog", "show"}, logger); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), `"command":"catalog/show"`) {
		t.Errorf("log record not scoped: %s", logs.String())
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"convert", "convert", 0},
		{"convrt", "convert", 1},
		{"anlayze", "analyze", 2},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
