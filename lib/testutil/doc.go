// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for uidecode packages.
//
// [Builder] assembles little-endian layout fixtures byte by byte:
// version headers, u16-prefixed Latin-1 and UTF-16 strings, integers,
// floats, and booleans. Tests describe a file as a sequence of fields
// instead of hand-writing byte slices, which keeps offsets in the
// assertions explainable. [Builder.Mark] records the current length so
// a test can assert where a block should start or end.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation (temporary file names, catalog rows).
//
// [WriteFile] writes a fixture under a test's temporary directory,
// creating intermediate directories, and fails the test on error.
//
// This package has no uidecode-internal dependencies.
package testutil
