// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package analysis infers structure in a layout buffer whose grammar is
// unknown or unsupported.
//
// An [Analyzer] owns one immutable buffer and one [block.Arena]. [Analyzer.Run]
// executes a fixed pipeline of passes, in order:
//
//  1. version probe: the "VersionNNN" header at offset 0
//  2. root id probe: the u32 before a legacy "\x04\x00root" marker at 14
//  3. string scan from offset 10, classifying printable strings
//     (image path, font name, t0 token, events_end anchor, NewState,
//     generic) with a UTF-16 fallback and byte-level resync
//  4. image merge: id + path + three u32 values become one Image
//  5. event list merge: strings directly before events_end
//  6. counted list merge: a u32 count header followed by that many
//     contiguous Image or ImagePath blocks
//  7. NewState merge: state id before, x/y size after
//  8. image use scan: 24-byte windows starting at a known image id
//  9. root context probe: title2 and the x/y offsets of a legacy root
//     entry
//
// Each pass reads what earlier passes produced. [Analyzer.FullyDecoded]
// reports whether the final blocks tile the buffer with no gaps, which
// is typical for key/value files; the batch runner records it so clean
// parses need no further manual inspection.
//
// [Analyzer.Report] renders the sorted blocks through a markup builder.
// Gaps between blocks become RawData hex dumps and overlaps produce a
// warning element, so every byte of the buffer appears in the report.
// The analyzer never fails on malformed input; only write errors are
// returned.
//
// [Analyzer.Summary] produces a CBOR-encodable description of the
// blocks for the result catalog.
package analysis
