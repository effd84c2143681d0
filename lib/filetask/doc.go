// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package filetask describes layout files found in a game data tree.
//
// The tree is laid out as <root>/<game>/.../<file>. A [Task] knows its
// game (the name of the file's parent directory), its [Kind] from the
// file extension (.fc font catalogs, .cml key/value lists, anything
// else a layout), and its header version, which is read from the first
// ten bytes on demand and cached. [Task.FullVersion] combines kind and
// version into the label used by the batch version matrix: "fc044",
// "cml002", or a bare "044" for layouts.
//
// [Discover] walks a root and returns a [Set] of tasks in path order,
// filtered by game and extension. Game filters match exactly or, with
// Fuzzy set, through the fzf algorithm.
//
// [Task.Load] reads the whole file. On unix the file is memory-mapped
// read-only; the returned [Content] must be closed to unmap it.
package filetask
