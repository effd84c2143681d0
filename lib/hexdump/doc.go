// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hexdump renders byte ranges as 16-byte rows: an ASCII column
// (non-printable bytes shown as '.') padded to 16 columns, a space, and
// the bytes as space-separated two-digit hex.
//
// The analyzer uses it for unclassified gaps and the decoder for the
// bounded diagnostic dump written on failure. [Before] and [After]
// compute the clamped byte ranges for that diagnostic.
package hexdump
