// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bytecursor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// displayDigits is the number of significant decimal digits tried
// before falling back to the exact shortest representation.
const displayDigits = 5

// nanPrefix marks a NaN display string. The payload bits follow in
// hex so the display is reversible for every NaN.
const nanPrefix = "NaN:0x"

// Float32 is a decoded binary32 value. Bits is authoritative; Display
// is only its textual rendering.
type Float32 struct {
	Bits    uint32
	Display string
}

// NewFloat32 builds a Float32 from its bit pattern.
func NewFloat32(bits uint32) Float32 {
	return Float32{Bits: bits, Display: DisplayFloat32(bits)}
}

// Value returns the numeric value.
func (f Float32) Value() float32 {
	return math.Float32frombits(f.Bits)
}

// String returns the display string.
func (f Float32) String() string {
	return f.Display
}

// DisplayFloat32 renders bits rounded to five significant digits when
// that rounding parses back to exactly the same bits, and otherwise
// renders the shortest decimal string that does. The decoded value is
// never changed, only how it is written.
func DisplayFloat32(bits uint32) string {
	value := math.Float32frombits(bits)
	if math.IsNaN(float64(value)) {
		return fmt.Sprintf("%s%08x", nanPrefix, bits)
	}

	rounded := strconv.FormatFloat(float64(value), 'g', displayDigits, 32)
	if parsed, err := strconv.ParseFloat(rounded, 32); err == nil {
		if math.Float32bits(float32(parsed)) == bits {
			return rounded
		}
	}
	return strconv.FormatFloat(float64(value), 'g', -1, 32)
}

// ParseDisplay converts a string produced by [DisplayFloat32] back to
// the original bit pattern.
func ParseDisplay(display string) (uint32, error) {
	if hexBits, ok := strings.CutPrefix(display, nanPrefix); ok {
		bits, err := strconv.ParseUint(hexBits, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("parsing NaN display %q: %w", display, err)
		}
		return uint32(bits), nil
	}
	parsed, err := strconv.ParseFloat(display, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing float display %q: %w", display, err)
	}
	return math.Float32bits(float32(parsed)), nil
}
