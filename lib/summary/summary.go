// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package summary

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bureau-foundation/uidecode/lib/catalog"
)

// Format selects the report encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "markdown", "md", and "html".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("summary: unknown format %q (want markdown or html)", name)
	}
}

// Report is the content of one run summary.
type Report struct {
	Run      catalog.Run
	Versions []catalog.VersionRow
	// Failures lists files that did not decode cleanly. Optional.
	Failures []catalog.File
}

// maxFailures bounds the failure table; the rest is counted.
const maxFailures = 200

// Markdown renders the report as GitHub-flavored Markdown.
func Markdown(report Report) string {
	var builder strings.Builder
	run := report.Run

	fmt.Fprintf(&builder, "# Run %d\n\n", run.ID)
	fmt.Fprintf(&builder, "- Root: `%s`\n", run.Root)
	fmt.Fprintf(&builder, "- Started: %s\n", run.StartedAt.UTC().Format(time.RFC3339))
	if run.Finished() {
		fmt.Fprintf(&builder, "- Elapsed: %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	} else {
		builder.WriteString("- Elapsed: unfinished\n")
	}
	fmt.Fprintf(&builder, "- Files: %d\n", run.Files)
	if run.Forensic {
		builder.WriteString("- Mode: forensic\n")
	}

	builder.WriteString("\n## Versions\n\n")
	if len(report.Versions) == 0 {
		builder.WriteString("No files.\n")
	} else {
		writeVersionTable(&builder, report.Versions)
	}

	if len(report.Failures) > 0 {
		builder.WriteString("\n## Failures\n\n")
		writeFailureTable(&builder, report.Failures)
	}
	return builder.String()
}

func writeVersionTable(builder *strings.Builder, rows []catalog.VersionRow) {
	builder.WriteString("| Version | Files |")
	for _, status := range catalog.Statuses {
		fmt.Fprintf(builder, " %s |", status)
	}
	builder.WriteString(" Decoded | Games |\n")

	builder.WriteString("|---|---:|")
	for range catalog.Statuses {
		builder.WriteString("---:|")
	}
	builder.WriteString("---:|---|\n")

	for _, row := range rows {
		total := row.Total()
		fmt.Fprintf(builder, "| %s | %d |", row.FullVersion, total)
		for _, status := range catalog.Statuses {
			fmt.Fprintf(builder, " %d |", row.Counts[status])
		}
		fmt.Fprintf(builder, " %s | %s |\n", percent(row.Decoded(), total), escapeCell(strings.Join(row.Games, ", ")))
	}
}

func writeFailureTable(builder *strings.Builder, failures []catalog.File) {
	builder.WriteString("| File | Version | Status | Error | Offset | Checkpoint |\n")
	builder.WriteString("|---|---|---|---|---:|---:|\n")
	for index, file := range failures {
		if index == maxFailures {
			fmt.Fprintf(builder, "\n%d more not shown.\n", len(failures)-maxFailures)
			return
		}
		fmt.Fprintf(builder, "| `%s` | %s | %s | %s | %d | %d |\n",
			escapeCell(file.Path), file.FullVersion, file.Status,
			escapeCell(file.ErrorKind), file.FailureOffset, file.Checkpoint)
	}
}

func percent(part, whole int) string {
	if whole == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(part)/float64(whole))
}

// escapeCell keeps a value from breaking the table row.
func escapeCell(value string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(value)
}

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func htmlRenderer() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>uidecode run %d</title>
<style>
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 2px 8px; }
td { font-family: monospace; }
</style>
</head>
<body>
`

const htmlFooter = "</body>\n</html>\n"

// HTML renders the report as a standalone HTML page.
func HTML(writer io.Writer, report Report) error {
	var body bytes.Buffer
	if err := htmlRenderer().Convert([]byte(Markdown(report)), &body); err != nil {
		return fmt.Errorf("summary: rendering html: %w", err)
	}
	if _, err := fmt.Fprintf(writer, htmlHeader, report.Run.ID); err != nil {
		return err
	}
	if _, err := body.WriteTo(writer); err != nil {
		return err
	}
	_, err := io.WriteString(writer, htmlFooter)
	return err
}

// Write renders report in format.
func Write(writer io.Writer, report Report, format Format) error {
	switch format {
	case FormatHTML:
		return HTML(writer, report)
	case FormatMarkdown:
		_, err := io.WriteString(writer, Markdown(report))
		return err
	default:
		return fmt.Errorf("summary: unknown format %q", format)
	}
}
