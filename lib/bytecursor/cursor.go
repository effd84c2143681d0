// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bytecursor

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads sequentially from a byte buffer. The buffer is never
// modified; slices returned by [Cursor.Bytes] alias it and must be
// treated as read-only.
//
// A Cursor is not safe for concurrent use. Each decode owns exactly
// one cursor.
type Cursor struct {
	data   []byte
	offset int
}

// New returns a cursor positioned at offset 0 of data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Data returns the whole underlying buffer.
func (c *Cursor) Data() []byte { return c.data }

// Offset returns the current read position.
func (c *Cursor) Offset() int { return c.offset }

// Size returns the buffer length.
func (c *Cursor) Size() int { return len(c.data) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.offset }

// EOF reports whether every byte has been consumed.
func (c *Cursor) EOF() bool { return c.offset == len(c.data) }

// Rewind moves the cursor to an absolute offset. This is the only way to
// move backward and exists for the decoder's recovery probes; ordinary
// field reads never call it.
func (c *Cursor) Rewind(offset int) error {
	if offset < 0 || offset > len(c.data) {
		return fmt.Errorf("%w: rewind to %d (size %d)", ErrOutOfBounds, offset, len(c.data))
	}
	c.offset = offset
	return nil
}

// Peek returns the next n bytes without advancing.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if err := c.check(n); err != nil {
		return nil, err
	}
	return c.data[c.offset : c.offset+n], nil
}

// Bytes reads exactly n raw bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.check(n); err != nil {
		return nil, err
	}
	raw := c.data[c.offset : c.offset+n]
	c.offset += n
	return raw, nil
}

func (c *Cursor) check(n int) error {
	if n < 0 || c.offset+n > len(c.data) {
		return fmt.Errorf("%w: reading %d bytes at offset %d (size %d)",
			ErrOutOfBounds, n, c.offset, len(c.data))
	}
	return nil
}

// U8 reads one unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	raw, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}
	return raw[0], nil
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	raw, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(raw), nil
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	raw, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

// I32 reads a little-endian int32.
func (c *Cursor) I32() (int32, error) {
	value, err := c.U32()
	return int32(value), err
}

// Bool reads a byte that must be 0 or 1.
func (c *Cursor) Bool() (bool, error) {
	start := c.offset
	value, err := c.U8()
	if err != nil {
		return false, err
	}
	if value > 1 {
		c.offset = start
		return false, fmt.Errorf("%w: invalid boolean value %d at offset %d",
			ErrInvariantViolation, value, start)
	}
	return value == 1, nil
}

// Zero16 reads a u16 that must be exactly zero.
func (c *Cursor) Zero16() error {
	start := c.offset
	value, err := c.U16()
	if err != nil {
		return err
	}
	if value != 0 {
		c.offset = start
		return fmt.Errorf("%w: expected zero u16 at offset %d, got %d",
			ErrInvariantViolation, start, value)
	}
	return nil
}

// ZeroU32 reads a u32 that must be exactly zero.
func (c *Cursor) ZeroU32() error {
	start := c.offset
	value, err := c.U32()
	if err != nil {
		return err
	}
	if value != 0 {
		c.offset = start
		return fmt.Errorf("%w: expected zero u32 at offset %d, got %d",
			ErrInvariantViolation, start, value)
	}
	return nil
}

// F32 reads an IEEE-754 binary32 value.
func (c *Cursor) F32() (Float32, error) {
	bits, err := c.U32()
	if err != nil {
		return Float32{}, err
	}
	return NewFloat32(bits), nil
}
