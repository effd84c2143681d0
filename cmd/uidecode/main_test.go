// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/uidecode/cmd/uidecode/cli"
	"github.com/bureau-foundation/uidecode/lib/analysis"
	"github.com/bureau-foundation/uidecode/lib/clock"
	"github.com/bureau-foundation/uidecode/lib/codec"
	"github.com/bureau-foundation/uidecode/lib/compress"
	"github.com/bureau-foundation/uidecode/lib/config"
	"github.com/bureau-foundation/uidecode/lib/testutil"
)

const settingsDocument = `<cml version="002">
  <key>foo</key>
  <value>bar</value>
</cml>
`

func settingsData() []byte {
	return testutil.NewBuilder().Header(2).Str("foo").Str("bar").Bytes()
}

func fontsOutOfBounds() []byte {
	return testutil.NewBuilder().Header(44).
		Str("a").U32(1).Str("b").U32(2).U32(3).Color(0, 0, 0, 0).
		Str("c").
		Bytes()
}

func legacyData() []byte {
	return testutil.NewBuilder().Header(10).U32(7).Str("title").Bytes()
}

// newTestApp returns an app writing to a buffer, with no terminal and
// no config file in the environment.
func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")
	fake := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	fake.SetStep(time.Millisecond)
	var stdout bytes.Buffer
	return &app{stdout: &stdout, clock: fake}, &stdout
}

func execute(application *app, args ...string) error {
	root := application.root()
	root.Output = io.Discard
	return root.Execute(context.Background(), args, slog.New(slog.DiscardHandler))
}

func TestConvert_Stdout(t *testing.T) {
	application, stdout := newTestApp(t)
	path := testutil.WriteFile(t, t.TempDir(), "alpha/settings.cml", settingsData())

	if err := execute(application, "convert", path); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if stdout.String() != settingsDocument {
		t.Errorf("output:\n%s\nwant:\n%s", stdout.String(), settingsDocument)
	}
}

func TestConvert_ColorAlways(t *testing.T) {
	application, stdout := newTestApp(t)
	path := testutil.WriteFile(t, t.TempDir(), "alpha/settings.cml", settingsData())

	if err := execute(application, "convert", "--color", "always", path); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(stdout.String(), "\x1b[") {
		t.Error("--color always produced no escapes")
	}
	if !strings.Contains(ansi.Strip(stdout.String()), "<key>foo</key>") {
		t.Errorf("stripped output missing content:\n%s", ansi.Strip(stdout.String()))
	}
}

func TestConvert_BadColor(t *testing.T) {
	application, _ := newTestApp(t)
	path := testutil.WriteFile(t, t.TempDir(), "alpha/settings.cml", settingsData())

	err := execute(application, "convert", "--color", "sometimes", path)
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryValidation {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestConvert_FailureWritesPartialDocument(t *testing.T) {
	application, stdout := newTestApp(t)
	path := testutil.WriteFile(t, t.TempDir(), "alpha/fonts.fc", fontsOutOfBounds())

	err := execute(application, "convert", path)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("err = %v, want ExitError 1", err)
	}
	if !strings.Contains(stdout.String(), `kind="out_of_bounds"`) {
		t.Errorf("document missing the error element:\n%s", stdout.String())
	}
}

func TestConvert_UnsupportedFallsBackToAnalyzer(t *testing.T) {
	application, stdout := newTestApp(t)
	path := testutil.WriteFile(t, t.TempDir(), "beta/legacy.ui", legacyData())

	if err := execute(application, "convert", path); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "<analysis") {
		t.Errorf("output is not an analyzer report:\n%s", stdout.String())
	}
}

func TestConvert_CompressedOutput(t *testing.T) {
	application, stdout := newTestApp(t)
	directory := t.TempDir()
	path := testutil.WriteFile(t, directory, "alpha/settings.cml", settingsData())
	output := filepath.Join(directory, "out", "settings.xml.zst")

	if err := execute(application, "convert", "-o", output, path); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout not empty with -o: %q", stdout.String())
	}
	text, err := readStoredDocument(output)
	if err != nil {
		t.Fatalf("reading %s: %v", output, err)
	}
	if text != settingsDocument {
		t.Errorf("stored document:\n%s\nwant:\n%s", text, settingsDocument)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("<cml")) {
		t.Error("stored document is not compressed")
	}
}

func TestConvert_Arguments(t *testing.T) {
	application, _ := newTestApp(t)

	var toolErr *cli.ToolError
	if err := execute(application, "convert"); !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryValidation {
		t.Errorf("no file: err = %v, want validation error", err)
	}
	err := execute(application, "convert", filepath.Join(t.TempDir(), "missing.ui"))
	if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryNotFound {
		t.Errorf("missing file: err = %v, want not-found error", err)
	}
}

func TestAnalyze_Report(t *testing.T) {
	application, stdout := newTestApp(t)
	path := testutil.WriteFile(t, t.TempDir(), "alpha/settings.cml", settingsData())

	if err := execute(application, "analyze", path); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "<analysis") {
		t.Errorf("output is not an analyzer report:\n%s", stdout.String())
	}
}

func TestAnalyze_SummaryFile(t *testing.T) {
	application, stdout := newTestApp(t)
	directory := t.TempDir()
	data := legacyData()
	path := testutil.WriteFile(t, directory, "beta/legacy.ui", data)
	summaryPath := filepath.Join(directory, "legacy.cbor")

	if err := execute(application, "analyze", "--summary", summaryPath, path); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	encoded, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatal(err)
	}
	var summary analysis.Summary
	if err := codec.Unmarshal(encoded, &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.Size != len(data) || summary.Version != 10 || !summary.HasVersion {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(stdout.String(), "<analysis") {
		t.Error("report not written alongside the summary file")
	}
}

func TestAnalyze_SummaryDiagnostic(t *testing.T) {
	application, stdout := newTestApp(t)
	path := testutil.WriteFile(t, t.TempDir(), "beta/legacy.ui", legacyData())

	if err := execute(application, "analyze", "--summary", "-", path); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(stdout.String(), `"counts"`) {
		t.Errorf("diagnostic notation missing counts:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), "<analysis") {
		t.Error("report printed although the summary went to stdout")
	}
}

func TestProbe_JSON(t *testing.T) {
	application, stdout := newTestApp(t)
	directory := t.TempDir()
	settings := testutil.WriteFile(t, directory, "alpha/settings.cml", settingsData())
	garbage := testutil.WriteFile(t, directory, "alpha/garbage.ui", []byte("Versio"))

	err := execute(application, "probe", "--json", settings, garbage)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want ExitError for the malformed file", err)
	}

	var entries []probeEntry
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, stdout.String())
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].FullVersion != "cml002" || entries[0].Dialect != "cml" || !entries[0].Supported || len(entries[0].Digest) != 64 {
		t.Errorf("settings entry = %+v", entries[0])
	}
	if entries[1].Error == "" {
		t.Errorf("garbage entry has no error: %+v", entries[1])
	}
}

func TestProbe_Table(t *testing.T) {
	application, stdout := newTestApp(t)
	directory := t.TempDir()
	legacy := testutil.WriteFile(t, directory, "beta/legacy.ui", legacyData())

	if err := execute(application, "probe", legacy); err != nil {
		t.Fatalf("probe: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "PATH") {
		t.Fatalf("table:\n%s", stdout.String())
	}
	if fields := strings.Fields(lines[1]); len(fields) != 5 || fields[1] != "010" || fields[2] != "unsupported" {
		t.Errorf("row = %q", lines[1])
	}
}

func writeDataTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFile(t, root, "alpha/settings.cml", settingsData())
	testutil.WriteFile(t, root, "alpha/fonts.fc", fontsOutOfBounds())
	testutil.WriteFile(t, root, "beta/legacy.ui", legacyData())
	testutil.WriteFile(t, root, "beta/garbage.ui", []byte("Versio"))
	return root
}

func TestBatch_EndToEnd(t *testing.T) {
	application, stdout := newTestApp(t)
	data := writeDataTree(t)
	output := t.TempDir()
	catalogPath := filepath.Join(output, "catalog.sqlite")

	if err := execute(application, "batch", "--data", data, "--output", output, "--workers", "2"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, want := range []string{"# Run 1", "- Files: 4", "cml002", "fc044", "## Failures", "out_of_bounds"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, stdout.String())
		}
	}
	if text, err := readStoredDocument(filepath.Join(output, "alpha", "settings.cml.xml")); err != nil || text != settingsDocument {
		t.Errorf("mirrored document = %q, %v", text, err)
	}

	stdout.Reset()
	if err := execute(application, "catalog", "versions", "--catalog", catalogPath, "--format", "html"); err != nil {
		t.Fatalf("catalog versions: %v", err)
	}
	if !strings.Contains(stdout.String(), "<table>") || !strings.Contains(stdout.String(), "uidecode run 1") {
		t.Errorf("HTML summary:\n%s", stdout.String())
	}

	stdout.Reset()
	if err := execute(application, "catalog", "show", "--catalog", catalogPath, filepath.Join(data, "alpha", "fonts.fc")); err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	for _, want := range []string{"status:", "failed", "out_of_bounds at offset"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, stdout.String())
		}
	}

	stdout.Reset()
	if err := execute(application, "catalog", "show", "--catalog", catalogPath, "--json", filepath.Join(data, "beta", "legacy.ui")); err != nil {
		t.Fatalf("catalog show --json: %v", err)
	}
	var entry fileEntry
	if err := json.Unmarshal(stdout.Bytes(), &entry); err != nil {
		t.Fatalf("decoding show output: %v", err)
	}
	if entry.Status != "unsupported" || entry.Blocks["Version"] != 1 {
		t.Errorf("legacy entry = %+v", entry)
	}

	// A second run carries every unchanged file over.
	stdout.Reset()
	if err := execute(application, "batch", "--data", data, "--output", output); err != nil {
		t.Fatalf("second batch: %v", err)
	}
	stdout.Reset()
	if err := execute(application, "catalog", "runs", "--catalog", catalogPath, "--json"); err != nil {
		t.Fatalf("catalog runs: %v", err)
	}
	var runs []runEntry
	if err := json.Unmarshal(stdout.Bytes(), &runs); err != nil {
		t.Fatalf("decoding runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != 2 || runs[0].FinishedAt == nil || runs[0].Files != 4 {
		t.Errorf("runs = %+v", runs)
	}
}

func TestBatch_Validation(t *testing.T) {
	application, _ := newTestApp(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no data root", args: []string{"batch", "--output", t.TempDir()}},
		{name: "no catalog", args: []string{"batch", "--data", t.TempDir()}},
		{name: "bad compression", args: []string{"batch", "--data", t.TempDir(), "--output", t.TempDir(), "--compression", "gzip"}},
		{name: "bad format", args: []string{"batch", "--format", "pdf"}},
		{name: "stray argument", args: []string{"batch", "extra"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := execute(application, test.args...)
			var toolErr *cli.ToolError
			if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryValidation {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCatalog_Missing(t *testing.T) {
	application, _ := newTestApp(t)
	err := execute(application, "catalog", "versions", "--catalog", filepath.Join(t.TempDir(), "none.sqlite"))
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryNotFound {
		t.Errorf("err = %v, want not-found error", err)
	}
}

func TestIsStoredDocument(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"out/alpha/menu.ui.xml", true},
		{"out/alpha/menu.ui.xml.zst", true},
		{"out/alpha/menu.ui.xml.lz4", true},
		{"data/alpha/menu.ui", false},
		{"data/alpha/menu.zst", false},
	}
	for _, test := range tests {
		if got := isStoredDocument(test.path); got != test.want {
			t.Errorf("isStoredDocument(%q) = %v, want %v", test.path, got, test.want)
		}
	}
}

func TestLoadDocument(t *testing.T) {
	directory := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	settings := testutil.WriteFile(t, directory, "alpha/settings.cml", settingsData())
	document, err := loadDocument(settings, false, logger)
	if err != nil {
		t.Fatal(err)
	}
	if document.Status != "ok" || document.Detail != "cml002 cml" || document.Text != settingsDocument {
		t.Errorf("document = %+v", document)
	}

	fonts := testutil.WriteFile(t, directory, "alpha/fonts.fc", fontsOutOfBounds())
	document, err = loadDocument(fonts, false, logger)
	if err != nil {
		t.Fatal(err)
	}
	if document.Status != "failed" || document.Detail != "fc044 fc out_of_bounds" {
		t.Errorf("failed document = %+v", document)
	}

	stored := filepath.Join(directory, "stored.xml.lz4")
	file, err := os.Create(stored)
	if err != nil {
		t.Fatal(err)
	}
	writer, err := compress.NewWriter(file, compress.LZ4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := writer.Write([]byte(settingsDocument)); err != nil {
		t.Fatal(err)
	}
	if err := errors.Join(writer.Close(), file.Close()); err != nil {
		t.Fatal(err)
	}
	document, err = loadDocument(stored, false, logger)
	if err != nil {
		t.Fatal(err)
	}
	if document.Status != "" || document.Text != settingsDocument {
		t.Errorf("stored document = %+v", document)
	}
}

func TestView_NeedsTerminal(t *testing.T) {
	application, _ := newTestApp(t)
	path := testutil.WriteFile(t, t.TempDir(), "alpha/settings.cml", settingsData())
	err := execute(application, "view", path)
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryValidation {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestRoot_UnknownCommand(t *testing.T) {
	application, _ := newTestApp(t)
	err := execute(application, "anlyze")
	if err == nil || !strings.Contains(err.Error(), `did you mean "analyze"`) {
		t.Errorf("err = %v, want suggestion", err)
	}
}
