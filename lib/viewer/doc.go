// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package viewer is the interactive pager for converted documents and
// the syntax highlighter used when printing them.
//
// [Model] is a bubbletea model: a header with the file's status, a
// scrolling body with a scrollbar, and a bottom bar that doubles as the
// fuzzy search prompt. Search ranks every line with fzf's algorithm;
// n and N walk the matches best first. [Highlight] and [ProfileFor]
// serve the non-interactive path, coloring markup with chroma when the
// output is a terminal.
package viewer
