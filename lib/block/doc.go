// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package block is the data model of the heuristic analyzer: classified
// half-open byte spans and the arena that owns them while analysis
// passes run.
//
// [Kind] is a closed enumeration. Every consumer switches over it
// exhaustively, so adding a kind is a compile-visible change to
// [Kind.String] and to each renderer. The decoded payload of a block is
// carried in the [Payload] field as one of the concrete payload types
// in this package; which type goes with which kind is documented on
// the Kind constants and checked by [Block.Validate].
//
// [Arena] addresses blocks by index. Merge passes replace an index
// range with one wider block ([Arena.Replace]), leaving tombstones that
// are removed by an explicit [Arena.Compact]. Indices are therefore
// stable for the duration of a pass.
package block
