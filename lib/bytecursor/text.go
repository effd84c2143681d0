// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bytecursor

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// HeaderSize is the length of the "VersionNNN" file header.
const HeaderSize = 10

const headerMagic = "Version"

// Latin1 reads a u16 byte count followed by that many Latin-1 bytes.
func (c *Cursor) Latin1() (string, error) {
	length, err := c.U16()
	if err != nil {
		return "", err
	}
	raw, err := c.Bytes(int(length))
	if err != nil {
		return "", err
	}
	return DecodeLatin1(raw)
}

// Unicode reads a u16 code unit count followed by count UTF-16LE code
// units. Each unit maps to one rune.
func (c *Cursor) Unicode() (string, error) {
	count, err := c.U16()
	if err != nil {
		return "", err
	}
	raw, err := c.Bytes(int(count) * 2)
	if err != nil {
		return "", err
	}
	return DecodeUTF16Units(raw), nil
}

// Version reads and validates the 10-byte header. It must be the first
// read on the cursor.
func (c *Cursor) Version() (int, error) {
	if c.offset != 0 {
		return 0, fmt.Errorf("%w: header read at offset %d", ErrMalformedHeader, c.offset)
	}
	version, err := ParseVersionHeader(c.data)
	if err != nil {
		return 0, err
	}
	c.offset = HeaderSize
	return version, nil
}

// ParseVersionHeader validates that data starts with "Version" and
// three ASCII digits and returns the number they spell.
func ParseVersionHeader(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, fmt.Errorf("%w: file is %d bytes, header needs %d",
			ErrMalformedHeader, len(data), HeaderSize)
	}
	if string(data[:len(headerMagic)]) != headerMagic {
		return 0, fmt.Errorf("%w: magic %q", ErrMalformedHeader, data[:len(headerMagic)])
	}
	digits := data[len(headerMagic):HeaderSize]
	for _, digit := range digits {
		if digit < '0' || digit > '9' {
			return 0, fmt.Errorf("%w: version digits %q", ErrMalformedHeader, digits)
		}
	}
	version, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	return version, nil
}

// DecodeLatin1 converts ISO-8859-1 bytes to a UTF-8 string.
func DecodeLatin1(raw []byte) (string, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding latin-1: %w", err)
	}
	return string(decoded), nil
}

// DecodeUTF16Units converts little-endian UTF-16 code units to a string,
// one rune per unit. A trailing odd byte is ignored. Unpaired surrogate
// units become U+FFFD when encoded as UTF-8.
func DecodeUTF16Units(raw []byte) string {
	var builder strings.Builder
	builder.Grow(len(raw) / 2)
	for index := 0; index+1 < len(raw); index += 2 {
		builder.WriteRune(rune(binary.LittleEndian.Uint16(raw[index:])))
	}
	return builder.String()
}
