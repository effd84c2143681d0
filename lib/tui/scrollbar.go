// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar produces a single-column scrollbar of the given
// height for a document of totalLines with visibleLines shown from
// offset. When everything fits, the thumb spans the full height.
func RenderScrollbar(renderer *lipgloss.Renderer, theme Theme, height, totalLines, visibleLines, offset int) string {
	if height <= 0 {
		return ""
	}

	trackStyle := renderer.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := renderer.NewStyle().Foreground(theme.HeaderForeground)

	thumbSize, thumbOffset := height, 0
	if totalLines > visibleLines && totalLines > 0 {
		thumbSize = max(height*visibleLines/totalLines, 1)
		scrollableRange := totalLines - visibleLines
		trackRange := height - thumbSize
		if trackRange > 0 {
			thumbOffset = offset * trackRange / scrollableRange
		}
		thumbOffset = min(thumbOffset, height-thumbSize)
	}

	lines := make([]string, height)
	for index := range lines {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			lines[index] = thumbStyle.Render("┃")
		} else {
			lines[index] = trackStyle.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}
