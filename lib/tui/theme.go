// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette of uidecode's terminal views. All
// colors use lipgloss ANSI 256-color codes.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Outcome colors, keyed by catalog status name.
	StatusOK          lipgloss.Color
	StatusFailed      lipgloss.Color
	StatusUnsupported lipgloss.Color
	StatusMalformed   lipgloss.Color
	StatusAnalyzed    lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	HeaderBackground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Search match highlighting.
	SearchGutter            lipgloss.Color // Marker beside every matched line.
	SearchCurrentBackground lipgloss.Color // Background of the current match's characters.

	// Help overlay box.
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// StatusColor returns the color for a catalog status name, or
// FaintText for unknown values.
func (theme Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case "ok":
		return theme.StatusOK
	case "failed":
		return theme.StatusFailed
	case "unsupported":
		return theme.StatusUnsupported
	case "malformed":
		return theme.StatusMalformed
	case "analyzed":
		return theme.StatusAnalyzed
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	StatusOK:          lipgloss.Color("114"), // green
	StatusFailed:      lipgloss.Color("196"), // red
	StatusUnsupported: lipgloss.Color("220"), // amber
	StatusMalformed:   lipgloss.Color("208"), // orange
	StatusAnalyzed:    lipgloss.Color("141"), // light purple

	HeaderForeground: lipgloss.Color("255"),
	HeaderBackground: lipgloss.Color("236"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	SearchGutter:            lipgloss.Color("220"),
	SearchCurrentBackground: lipgloss.Color("100"),

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),
}
