// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration used for every
// binary artifact uidecode writes.
//
// uidecode uses two serialization formats with a clear boundary:
//
//   - Markup for human-facing output: decoded documents and forensic
//     reports, written through lib/markup.
//   - CBOR for machine-facing artifacts: analyzer block summaries
//     (analyze --summary) and the block blobs stored in the result
//     catalog.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same analysis always produces identical bytes, so catalog rows can be
// compared byte for byte across runs.
//
//	data, err := codec.Marshal(summary)
//	err = codec.Unmarshal(data, &summary)
//
// [Diagnose] renders stored blobs in CBOR diagnostic notation for
// "uidecode catalog show --diag".
//
// Types serialized here carry `cbor` struct tags only.
package codec
