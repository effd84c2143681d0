// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package summary renders a catalog run as a per-version outcome
// matrix in Markdown, or as a standalone HTML page converted from that
// Markdown with goldmark's GFM tables.
package summary
