// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// Builder appends little-endian fields to a byte slice. All methods
// return the builder so fixtures read as one chained expression.
//
//	data := testutil.NewBuilder().Header(44).Str("font").U32(7).Bytes()
type Builder struct {
	data []byte
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bytes returns the assembled buffer.
func (b *Builder) Bytes() []byte { return b.data }

// Len returns the current length, which is the offset of the next
// appended field.
func (b *Builder) Len() int { return len(b.data) }

// Mark stores the current length in *offset and returns the builder.
func (b *Builder) Mark(offset *int) *Builder {
	*offset = len(b.data)
	return b
}

// Header appends "Version" and the three-digit version number.
func (b *Builder) Header(version int) *Builder {
	b.data = append(b.data, fmt.Sprintf("Version%03d", version)...)
	return b
}

// Raw appends bytes verbatim.
func (b *Builder) Raw(raw ...byte) *Builder {
	b.data = append(b.data, raw...)
	return b
}

// Text appends the bytes of s without a length prefix.
func (b *Builder) Text(s string) *Builder {
	b.data = append(b.data, s...)
	return b
}

// U8 appends one byte.
func (b *Builder) U8(value uint8) *Builder {
	b.data = append(b.data, value)
	return b
}

// U16 appends a little-endian uint16.
func (b *Builder) U16(value uint16) *Builder {
	b.data = binary.LittleEndian.AppendUint16(b.data, value)
	return b
}

// U32 appends a little-endian uint32.
func (b *Builder) U32(value uint32) *Builder {
	b.data = binary.LittleEndian.AppendUint32(b.data, value)
	return b
}

// I32 appends a little-endian int32.
func (b *Builder) I32(value int32) *Builder {
	return b.U32(uint32(value))
}

// F32 appends an IEEE-754 binary32 value.
func (b *Builder) F32(value float32) *Builder {
	return b.U32(math.Float32bits(value))
}

// Bool appends 1 or 0.
func (b *Builder) Bool(value bool) *Builder {
	if value {
		return b.U8(1)
	}
	return b.U8(0)
}

// Str appends a u16 byte count and the bytes of s.
func (b *Builder) Str(s string) *Builder {
	b.U16(uint16(len(s)))
	return b.Text(s)
}

// Unicode appends a u16 code unit count and s as UTF-16LE, one unit per
// rune. Runes above U+FFFF are not representable and panic.
func (b *Builder) Unicode(s string) *Builder {
	runes := []rune(s)
	b.U16(uint16(len(runes)))
	for _, r := range runes {
		if r > 0xFFFF {
			panic(fmt.Sprintf("testutil.Builder.Unicode: rune %U outside the BMP", r))
		}
		b.U16(uint16(r))
	}
	return b
}

// Color appends four bytes in blue, green, red, alpha order.
func (b *Builder) Color(blue, green, red, alpha uint8) *Builder {
	return b.Raw(blue, green, red, alpha)
}

// WriteFile writes data to name under directory, creating parent
// directories. Returns the full path.
func WriteFile(t *testing.T, directory, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(directory, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}
