// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal components for uidecode's
// interactive views: the color theme, a scrollbar column, and
// ANSI-aware overlay splicing for popup boxes.
//
// Styles are created from a caller-supplied lipgloss renderer so the
// color profile is decided once by the command, not re-detected per
// component.
package tui
