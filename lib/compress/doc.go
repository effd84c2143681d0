// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package compress compresses converted documents and catalog blobs.
//
// Two shapes are supported for each [Tag]:
//
//   - streams: [NewWriter] wraps the file a document is written to, so
//     the markup builder streams through the compressor. LZ4 uses the
//     frame format and zstd its standard frame, so stored documents open
//     with the stock lz4 and zstd tools. [Extension] names the suffix
//     appended to the document path and [TagForPath] recovers the tag
//     when reading it back.
//   - blocks: [Compress] and [Decompress] handle small in-memory values
//     such as analysis summaries stored in the catalog. The caller keeps
//     the uncompressed size and passes it to Decompress, which verifies
//     it. [CompressAuto] falls back to [None] when compression does not
//     shrink the value.
package compress
