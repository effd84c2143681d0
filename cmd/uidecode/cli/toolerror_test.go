// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestToolError_Hint(t *testing.T) {
	err := NotFound("run %d not found", 7).WithHint("Run 'uidecode batch' first.")
	want := "run 7 not found\n\nRun 'uidecode batch' first."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if strings.Contains(Internal("boom").Error(), "\n\n") {
		t.Error("empty hint added a blank line")
	}
}

func TestToolError_Unwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := fmt.Errorf("outer: %w", Internal("reading: %w", sentinel))

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is does not reach the wrapped sentinel")
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryInternal {
		t.Errorf("errors.As did not find the internal ToolError")
	}
}

func TestToolError_ExitCode(t *testing.T) {
	tests := []struct {
		err  *ToolError
		want int
	}{
		{Validation("bad"), 2},
		{NotFound("missing"), 1},
		{Internal("bug"), 1},
	}
	for _, test := range tests {
		if got := test.err.ExitCode(); got != test.want {
			t.Errorf("%s: ExitCode = %d, want %d", test.err.Category, got, test.want)
		}
	}
}

func TestExitError(t *testing.T) {
	var coder interface{ ExitCode() int } = &ExitError{Code: 3}
	if coder.ExitCode() != 3 {
		t.Errorf("ExitCode = %d, want 3", coder.ExitCode())
	}
}

func TestNewLogger_Handlers(t *testing.T) {
	var buffer bytes.Buffer
	newLogger(&buffer, false, 0).Info("converted", "path", "a.ui")
	if !strings.HasPrefix(buffer.String(), "{") {
		t.Errorf("non-terminal logger did not write JSON: %q", buffer.String())
	}

	buffer.Reset()
	newLogger(&buffer, true, 0).Info("converted", "path", "a.ui")
	if !strings.Contains(buffer.String(), "msg=converted") {
		t.Errorf("terminal logger did not write text: %q", buffer.String())
	}
}
