// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"cmp"
	"fmt"
)

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns End - Start.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool { return s.End <= s.Start }

// Overlaps reports whether s and other share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Contains reports whether offset lies inside s.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// String renders the span as an inclusive range, "start..last".
func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End-1)
}

// Compare orders spans by Start, then End.
func Compare(a, b Span) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}
