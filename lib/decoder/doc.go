// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package decoder converts layout buffers whose grammar is known into
// an indented markup document.
//
// The ten-byte "VersionNNN" header selects a [Dialect]:
//
//   - 002 is a flat list of key/value string pairs
//   - 044 and 050 to 053 without a legacy root marker are font catalogs
//   - 025 to 054 are generation 1 layout entries
//   - 055 to 999 are generation 2 layout entries
//
// Anything else is [ErrUnsupportedVersion]; callers usually hand such
// files to the analysis package instead.
//
// Record layouts are declared as [Schedule] values: ordered fields,
// each gated on an inclusive version range. One interpreter reads any
// schedule against a [bytecursor.Cursor], so supporting a new version
// means adding rows, not code. [EntryFields] exposes the layout entry
// matrix for inspection.
//
// The decoder is strict. Every read is bounds checked, booleans must be
// 0 or 1, reserved fields must be zero, and variant tags must be known.
// The first violation stops decoding; [Convert] then writes an <error>
// element with hex dumps around the last record boundary and the
// failure offset, and returns an error that [Classify] maps to an
// [ErrorKind].
package decoder
