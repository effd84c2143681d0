// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package summary

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/uidecode/lib/catalog"
)

func testReport() Report {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return Report{
		Run: catalog.Run{
			ID:         7,
			StartedAt:  started,
			FinishedAt: started.Add(1500 * time.Millisecond),
			Root:       "/data",
			Files:      4,
		},
		Versions: []catalog.VersionRow{
			{
				FullVersion: "cml002",
				Kind:        "cml",
				Version:     2,
				Counts:      map[catalog.Status]int{catalog.StatusOK: 1},
				Games:       []string{"alpha"},
			},
			{
				FullVersion: "044",
				Kind:        "ui",
				Version:     44,
				Counts:      map[catalog.Status]int{catalog.StatusOK: 1, catalog.StatusFailed: 2},
				Games:       []string{"alpha", "beta"},
			},
		},
		Failures: []catalog.File{
			{Path: "/data/beta/menu.ui", FullVersion: "044", Status: catalog.StatusFailed,
				ErrorKind: "unknown_discriminator", FailureOffset: 812, Checkpoint: 640},
		},
	}
}

func TestMarkdown(t *testing.T) {
	output := Markdown(testReport())

	for _, want := range []string{
		"# Run 7\n",
		"- Root: `/data`\n",
		"- Started: 2026-03-01T12:00:00Z\n",
		"- Elapsed: 1.5s\n",
		"| Version | Files | ok | failed | unsupported | malformed | analyzed | Decoded | Games |\n",
		"| cml002 | 1 | 1 | 0 | 0 | 0 | 0 | 100% | alpha |\n",
		"| 044 | 3 | 1 | 2 | 0 | 0 | 0 | 33% | alpha, beta |\n",
		"| `/data/beta/menu.ui` | 044 | failed | unknown_discriminator | 812 | 640 |\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("markdown lacks %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "forensic") {
		t.Error("non-forensic run labeled forensic")
	}
}

func TestMarkdown_EmptyAndUnfinished(t *testing.T) {
	output := Markdown(Report{Run: catalog.Run{ID: 1, StartedAt: time.Unix(0, 0), Forensic: true}})
	for _, want := range []string{"- Elapsed: unfinished\n", "- Mode: forensic\n", "No files.\n"} {
		if !strings.Contains(output, want) {
			t.Errorf("markdown lacks %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "## Failures") {
		t.Error("failure section rendered without failures")
	}
}

func TestMarkdown_FailureLimit(t *testing.T) {
	report := testReport()
	report.Failures = nil
	for index := range maxFailures + 5 {
		report.Failures = append(report.Failures, catalog.File{
			Path: fmt.Sprintf("/data/a/%d.ui", index), Status: catalog.StatusFailed,
		})
	}
	output := Markdown(report)
	if !strings.Contains(output, "5 more not shown.") {
		t.Errorf("missing overflow note")
	}
	if strings.Contains(output, fmt.Sprintf("/data/a/%d.ui", maxFailures)) {
		t.Errorf("failure beyond the limit rendered")
	}
}

func TestEscapeCell(t *testing.T) {
	if got := escapeCell("a|b\nc"); got != `a\|b c` {
		t.Errorf("escapeCell = %q", got)
	}
}

func TestHTML(t *testing.T) {
	var buffer bytes.Buffer
	if err := Write(&buffer, testReport(), FormatHTML); err != nil {
		t.Fatalf("Write: %v", err)
	}
	output := buffer.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>uidecode run 7</title>",
		"<h1>Run 7</h1>",
		"<table>",
		"<td>044</td>",
		"<code>/data/beta/menu.ui</code>",
		"</html>\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("html lacks %q:\n%s", want, output)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "", want: FormatMarkdown},
		{name: "md", want: FormatMarkdown},
		{name: "Markdown", want: FormatMarkdown},
		{name: "html", want: FormatHTML},
		{name: "pdf", wantErr: true},
	}
	for _, test := range tests {
		format, err := ParseFormat(test.name)
		if (err != nil) != test.wantErr || format != test.want {
			t.Errorf("ParseFormat(%q) = %q, %v", test.name, format, err)
		}
	}
}
