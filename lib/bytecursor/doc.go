// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bytecursor provides a sequential, bounds-checked reader over
// an immutable in-memory buffer. Both the heuristic analyzer and the
// structural decoder read layout files through a [Cursor].
//
// Every read advances the offset monotonically and fails with
// [ErrOutOfBounds] instead of reading past the end of the buffer. A
// failed read leaves the offset where it was, including the asserting
// reads ([Cursor.Bool], [Cursor.Zero16], [Cursor.ZeroU32]) that fail
// with [ErrInvariantViolation]. The only other backward movement is [Cursor.Rewind], an explicit escape used by
// decoder recovery probes.
//
// Integers are little-endian. Strings come in two shapes, both with a
// u16 prefix:
//
//   - [Cursor.Latin1]: the prefix is a byte count, the payload is
//     Latin-1.
//   - [Cursor.Unicode]: the prefix is a UTF-16 code unit count, the
//     payload is 2*count bytes. Each code unit becomes one rune;
//     surrogate pairs are not combined.
//
// Floats are returned as [Float32], which carries the exact bit pattern
// together with a display string chosen by [DisplayFloat32]. The
// display string is always parseable back to the same bits with
// [ParseDisplay].
//
// The fixed 10-byte file header ("Version" followed by three ASCII
// digits) is validated by [ParseVersionHeader] and [Cursor.Version].
package bytecursor
