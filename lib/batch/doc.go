// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package batch converts a discovered set of data files on a bounded
// worker pool.
//
// Each file is one unit of work: it is loaded once (memory mapped
// where the platform allows), hashed with BLAKE3, probed for its
// version and dialect, and then either decoded or, for unsupported
// versions and forensic runs, analyzed. The resulting markup document
// is written under the output root mirroring the file's path below the
// data root, optionally compressed.
//
// The core decoder takes no context. A per-file time budget is applied
// by running each conversion in its own goroutine under
// [context.WithTimeout]; an abandoned conversion keeps its mapping
// until it returns.
//
// When a [catalog.Catalog] is configured, every file gets a record in
// the run, and files whose digest matches their previous record are
// carried over instead of being converted again.
package batch
