// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bytecursor

import "errors"

var (
	// ErrOutOfBounds is returned when a read would extend past the end
	// of the buffer. It is always fatal for the current decode.
	ErrOutOfBounds = errors.New("bytecursor: read past end of buffer")

	// ErrMalformedHeader is returned when the first 10 bytes are not
	// "Version" followed by three ASCII digits.
	ErrMalformedHeader = errors.New("bytecursor: malformed version header")

	// ErrInvariantViolation is returned when a field that is asserted
	// to hold a fixed value (a boolean byte, an always-zero integer)
	// holds something else. The decoder treats this as evidence that
	// it has lost alignment with the grammar.
	ErrInvariantViolation = errors.New("bytecursor: invariant violation")
)
