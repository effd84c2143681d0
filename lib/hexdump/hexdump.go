// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hexdump

import (
	"fmt"
	"strings"
)

// RowSize is the number of bytes rendered per row.
const RowSize = 16

// Row is one rendered line of a dump.
type Row struct {
	// Offset is the absolute offset of the row's first byte.
	Offset int
	ASCII  string
	Hex    string
}

// String joins the padded ASCII column and the hex column.
func (r Row) String() string {
	return fmt.Sprintf("%-*s %s", RowSize, r.ASCII, r.Hex)
}

// Rows splits data into rows. base is the absolute offset of data[0]
// and only affects Row.Offset.
func Rows(data []byte, base int) []Row {
	rows := make([]Row, 0, (len(data)+RowSize-1)/RowSize)
	for start := 0; start < len(data); start += RowSize {
		end := min(start+RowSize, len(data))
		rows = append(rows, renderRow(data[start:end], base+start))
	}
	return rows
}

// Lines is Rows rendered to strings.
func Lines(data []byte, base int) []string {
	rows := Rows(data, base)
	lines := make([]string, len(rows))
	for index, row := range rows {
		lines[index] = row.String()
	}
	return lines
}

func renderRow(chunk []byte, offset int) Row {
	var ascii, hex strings.Builder
	for index, value := range chunk {
		if Printable(value) {
			ascii.WriteByte(value)
		} else {
			ascii.WriteByte('.')
		}
		if index > 0 {
			hex.WriteByte(' ')
		}
		fmt.Fprintf(&hex, "%02x", value)
	}
	return Row{Offset: offset, ASCII: ascii.String(), Hex: hex.String()}
}

// Printable reports whether b is shown as itself in the ASCII column.
func Printable(b byte) bool {
	return b >= 0x20 && b < 0x7f
}

// Before returns the range [start, end) of up to size bytes ending at
// anchor, clamped to [0, limit].
func Before(anchor, size, limit int) (start, end int) {
	end = clamp(anchor, 0, limit)
	start = clamp(anchor-size, 0, end)
	return start, end
}

// After returns the range of up to size bytes starting at anchor,
// clamped to [0, limit].
func After(anchor, size, limit int) (start, end int) {
	start = clamp(anchor, 0, limit)
	end = clamp(anchor+size, start, limit)
	return start, end
}

func clamp(value, low, high int) int {
	return max(low, min(value, high))
}
