// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package decoder

import (
	"errors"

	"github.com/bureau-foundation/uidecode/lib/bytecursor"
)

var (
	// ErrUnsupportedVersion is returned when no grammar is known for the
	// header version. Callers usually fall back to the analyzer.
	ErrUnsupportedVersion = errors.New("decoder: unsupported version")

	// ErrUnknownDiscriminator is returned when a variant tag (child
	// kind, additional data type) is not one the grammar knows.
	ErrUnknownDiscriminator = errors.New("decoder: unknown discriminator")

	// ErrOutOfBounds, ErrMalformedHeader, and ErrInvariantViolation are
	// the cursor's sentinels, re-exported so callers need only this
	// package to inspect decode failures.
	ErrOutOfBounds        = bytecursor.ErrOutOfBounds
	ErrMalformedHeader    = bytecursor.ErrMalformedHeader
	ErrInvariantViolation = bytecursor.ErrInvariantViolation
)

// ErrorKind names a failure category for logs and the result catalog.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindMalformedHeader      ErrorKind = "malformed_header"
	KindOutOfBounds          ErrorKind = "out_of_bounds"
	KindInvariantViolation   ErrorKind = "invariant_violation"
	KindUnsupportedVersion   ErrorKind = "unsupported_version"
	KindUnknownDiscriminator ErrorKind = "unknown_discriminator"
	KindOther                ErrorKind = "other"
)

// Classify maps err to its taxonomy category. A nil error is KindNone;
// errors outside the taxonomy (I/O, cancellation) are KindOther.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedHeader):
		return KindMalformedHeader
	case errors.Is(err, ErrOutOfBounds):
		return KindOutOfBounds
	case errors.Is(err, ErrInvariantViolation):
		return KindInvariantViolation
	case errors.Is(err, ErrUnsupportedVersion):
		return KindUnsupportedVersion
	case errors.Is(err, ErrUnknownDiscriminator):
		return KindUnknownDiscriminator
	default:
		return KindOther
	}
}
