// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content digests for layout files.
//
// The batch runner records each input's digest in the result catalog.
// A later run over the same data tree compares digests and skips files
// whose bytes are unchanged for the same tool revision, even when their
// modification times moved.
//
// Digests use BLAKE3 keyed mode with a fixed domain key, so a layout
// digest never collides with a digest of the same bytes computed for
// another purpose.
//
//   - [Sum] hashes an in-memory buffer, which is what the batch runner
//     already holds after loading a file
//   - [HashFile] streams a file with constant memory
//   - [Digest.String] and [ParseDigest] convert to and from the
//     canonical hex form stored in the catalog
//
// This package has no dependencies on other uidecode packages.
package binhash
