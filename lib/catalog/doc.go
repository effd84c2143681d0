// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog persists batch conversion results in SQLite.
//
// Each batch invocation is a [Run]; each input file processed within
// it is a [File] record carrying the probed version and dialect, the
// outcome [Status], the error taxonomy name and offsets on failure,
// the input's BLAKE3 digest, and the analyzer summary when the
// analyzer ran. Summaries are stored as compressed CBOR.
//
// [Catalog.Versions] aggregates a run into a per-version matrix, the
// report used to find versions whose grammar is missing or broken.
// [Catalog.LastResult] lets the batch runner reuse results for inputs
// whose digest did not change since an earlier run.
//
// The database goes through lib/sqlitepool, so every connection gets
// WAL mode and the schema version check.
package catalog
