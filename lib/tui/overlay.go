// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay lines placed from (anchorX, anchorY). Truncation is
// ANSI-aware, so escape sequences on both sides of the overlay
// survive.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 || viewLineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
			// Short lines leave the overlay floating; pad to the anchor.
			if width := ansi.StringWidth(prefix); width < anchorX {
				result.WriteString(strings.Repeat(" ", anchorX-width))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		suffixStart := anchorX + overlayWidth
		if suffixStart < viewLineWidth {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// RenderBox renders title and rows as a filled box, one string per
// screen line, all of equal width. The result is meant for
// [SpliceOverlay].
func RenderBox(renderer *lipgloss.Renderer, theme Theme, title string, rows []string) []string {
	innerWidth := ansi.StringWidth(title)
	for _, row := range rows {
		innerWidth = max(innerWidth, ansi.StringWidth(row))
	}

	background := renderer.NewStyle().Background(theme.OverlayBackground)
	titleStyle := background.Foreground(theme.HeaderForeground).Bold(true)
	rowStyle := background.Foreground(theme.OverlayForeground)

	blank := background.Render(strings.Repeat(" ", innerWidth+2))
	lines := []string{blank, padLine(titleStyle.Render(title), innerWidth, background), blank}
	for _, row := range rows {
		lines = append(lines, padLine(rowStyle.Render(row), innerWidth, background))
	}
	return append(lines, blank)
}

// padLine pads styled content to innerWidth with one background
// column on each side.
func padLine(styledContent string, innerWidth int, background lipgloss.Style) string {
	rightPad := max(innerWidth-ansi.StringWidth(styledContent), 0)
	return background.Render(" ") +
		styledContent +
		background.Render(strings.Repeat(" ", rightPad+1))
}
