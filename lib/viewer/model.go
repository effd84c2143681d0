// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/uidecode/lib/fuzzy"
	"github.com/bureau-foundation/uidecode/lib/tui"
)

// Document is what the viewer displays.
type Document struct {
	// Title is shown in the header, usually the input path.
	Title string
	// Status is a catalog status name ("ok", "failed", ...).
	Status string
	// Detail follows the status in the header: version and dialect,
	// or the error kind.
	Detail string
	// Text is the markup document.
	Text string
}

// Options configures a Model.
type Options struct {
	// Profile is the color profile of the terminal. The zero value is
	// TrueColor; pass termenv.Ascii for plain output.
	Profile termenv.Profile
	// Theme defaults to tui.DefaultTheme when its NormalText is empty.
	Theme tui.Theme
	// Keys defaults to DefaultKeyMap when its Quit binding has no keys.
	Keys KeyMap
}

// chromeLines is the header plus the status/search bar.
const chromeLines = 2

// Model is the bubbletea model of the document viewer.
type Model struct {
	document Document
	keys     KeyMap
	theme    tui.Theme
	renderer *lipgloss.Renderer

	plain  []string // document lines without styling
	styled []string // syntax-highlighted lines, same length as plain

	viewport viewport.Model
	width    int
	height   int
	ready    bool

	// Search state. matches holds the ranked matching lines, best
	// first; current indexes into it.
	searching bool
	query     string
	matches   []fuzzy.Ranked
	current   int

	showHelp bool
}

// NewModel returns a viewer for document.
func NewModel(document Document, options Options) Model {
	theme := options.Theme
	if theme.NormalText == "" {
		theme = tui.DefaultTheme
	}
	keys := options.Keys
	if len(keys.Quit.Keys()) == 0 {
		keys = DefaultKeyMap
	}

	renderer := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(options.Profile))
	renderer.SetColorProfile(options.Profile)

	plain := strings.Split(strings.TrimSuffix(document.Text, "\n"), "\n")
	return Model{
		document: document,
		keys:     keys,
		theme:    theme,
		renderer: renderer,
		plain:    plain,
		styled:   highlightLines(plain, options.Profile),
	}
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.viewport.Width = max(model.width-1, 1)
		model.viewport.Height = max(model.height-chromeLines, 1)
		model.ready = true
		model.refresh()
		return model, nil

	case tea.KeyMsg:
		if model.searching {
			return model.handleSearchKeys(message)
		}
		return model.handleKeys(message)

	case tea.MouseMsg:
		switch message.Button {
		case tea.MouseButtonWheelUp:
			model.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			model.scrollBy(3)
		}
		return model, nil
	}
	return model, nil
}

func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.showHelp {
		// Any key closes the help overlay; quit still quits.
		model.showHelp = false
		if key.Matches(message, model.keys.Quit) {
			return model, tea.Quit
		}
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Help):
		model.showHelp = true
	case key.Matches(message, model.keys.Up):
		model.scrollBy(-1)
	case key.Matches(message, model.keys.Down):
		model.scrollBy(1)
	case key.Matches(message, model.keys.PageUp):
		model.scrollBy(-model.viewport.Height)
	case key.Matches(message, model.keys.PageDown):
		model.scrollBy(model.viewport.Height)
	case key.Matches(message, model.keys.Home):
		model.viewport.GotoTop()
	case key.Matches(message, model.keys.End):
		model.viewport.GotoBottom()
	case key.Matches(message, model.keys.SearchActivate):
		model.searching = true
		model.query = ""
		model.setMatches(nil)
	case key.Matches(message, model.keys.SearchNext):
		model.stepMatch(1)
	case key.Matches(message, model.keys.SearchPrevious):
		model.stepMatch(-1)
	case key.Matches(message, model.keys.SearchClear):
		model.query = ""
		model.setMatches(nil)
	}
	return model, nil
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyCtrlC:
		return model, tea.Quit
	case tea.KeyEsc:
		model.searching = false
		model.query = ""
		model.setMatches(nil)
	case tea.KeyEnter:
		model.searching = false
	case tea.KeyBackspace:
		if runes := []rune(model.query); len(runes) > 0 {
			model.query = string(runes[:len(runes)-1])
			model.search()
		}
	case tea.KeyRunes, tea.KeySpace:
		model.query += string(message.Runes)
		model.search()
	}
	return model, nil
}

// search ranks every document line against the query and jumps to
// the best match.
func (model *Model) search() {
	if model.query == "" {
		model.setMatches(nil)
		return
	}
	model.setMatches(fuzzy.Rank(model.plain, model.query))
	model.jumpToCurrent()
}

func (model *Model) setMatches(matches []fuzzy.Ranked) {
	model.matches = matches
	model.current = 0
	model.refresh()
}

func (model *Model) stepMatch(delta int) {
	if len(model.matches) == 0 {
		return
	}
	model.current = (model.current + delta + len(model.matches)) % len(model.matches)
	model.refresh()
	model.jumpToCurrent()
}

// jumpToCurrent scrolls so the current match sits a third of the way
// down the viewport.
func (model *Model) jumpToCurrent() {
	if len(model.matches) == 0 {
		return
	}
	line := model.matches[model.current].Index
	model.viewport.SetYOffset(max(line-model.viewport.Height/3, 0))
}

func (model *Model) scrollBy(lines int) {
	model.viewport.SetYOffset(model.viewport.YOffset + lines)
}

// refresh rebuilds the viewport content: a gutter column marks
// matched lines, and the current match has its matched characters
// highlighted over the plain text.
func (model *Model) refresh() {
	if !model.ready {
		return
	}
	marked := make(map[int]bool, len(model.matches))
	for _, match := range model.matches {
		marked[match.Index] = true
	}
	currentLine := -1
	var currentPositions []int
	if len(model.matches) > 0 {
		currentLine = model.matches[model.current].Index
		currentPositions = model.matches[model.current].Positions
	}

	gutterStyle := model.renderer.NewStyle().Foreground(model.theme.SearchGutter)
	contentWidth := max(model.viewport.Width-1, 1)

	lines := make([]string, len(model.plain))
	for index := range model.plain {
		gutter := " "
		if marked[index] {
			gutter = gutterStyle.Render("▌")
		}
		line := model.styled[index]
		if index == currentLine {
			line = model.highlightPositions(model.plain[index], currentPositions)
		}
		lines[index] = gutter + ansi.Truncate(line, contentWidth, "…")
	}

	offset := model.viewport.YOffset
	model.viewport.SetContent(strings.Join(lines, "\n"))
	model.viewport.SetYOffset(offset)
}

// highlightPositions styles the runes of text at positions with the
// current-match background.
func (model *Model) highlightPositions(text string, positions []int) string {
	matchStyle := model.renderer.NewStyle().
		Background(model.theme.SearchCurrentBackground).
		Foreground(model.theme.HeaderForeground)
	var builder strings.Builder
	for index, character := range []rune(text) {
		if _, found := slices.BinarySearch(positions, index); found {
			builder.WriteString(matchStyle.Render(string(character)))
		} else {
			builder.WriteRune(character)
		}
	}
	return builder.String()
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		model.renderer.NewStyle().Width(model.viewport.Width).Height(model.viewport.Height).Render(model.viewport.View()),
		tui.RenderScrollbar(model.renderer, model.theme, model.viewport.Height,
			model.viewport.TotalLineCount(), model.viewport.Height, model.viewport.YOffset),
	)
	view := strings.Join([]string{model.headerView(), body, model.statusView()}, "\n")
	if model.showHelp {
		view = model.overlayHelp(view)
	}
	return view
}

func (model Model) headerView() string {
	statusStyle := model.renderer.NewStyle().
		Foreground(model.theme.StatusColor(model.document.Status)).
		Bold(true)
	detailStyle := model.renderer.NewStyle().Foreground(model.theme.FaintText)

	right := ""
	if model.document.Status != "" {
		right = statusStyle.Render(model.document.Status)
	}
	if model.document.Detail != "" {
		right += " " + detailStyle.Render(model.document.Detail)
	}
	titleWidth := max(model.width-ansi.StringWidth(right)-2, 1)
	title := ansi.Truncate(model.document.Title, titleWidth, "…")
	padding := max(model.width-ansi.StringWidth(title)-ansi.StringWidth(right), 1)

	return model.renderer.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Background(model.theme.HeaderBackground).
		Render(title + strings.Repeat(" ", padding) + right)
}

func (model Model) statusView() string {
	style := model.renderer.NewStyle().Foreground(model.theme.HelpText)
	switch {
	case model.searching:
		return model.renderer.NewStyle().Foreground(model.theme.NormalText).
			Render(" / " + model.query + "▎")
	case model.query != "":
		info := "(no matches)"
		if len(model.matches) > 0 {
			info = fmt.Sprintf("(%d/%d)", model.current+1, len(model.matches))
		}
		return style.Render(fmt.Sprintf(" search: %s %s", model.query, info))
	default:
		total := len(model.plain)
		last := min(model.viewport.YOffset+model.viewport.Height, total)
		return style.Render(fmt.Sprintf(" lines %d-%d of %d   ? help", model.viewport.YOffset+1, last, total))
	}
}

func (model Model) overlayHelp(view string) string {
	var rows []string
	for _, binding := range model.keys.helpRows() {
		help := binding.Help()
		rows = append(rows, fmt.Sprintf("%-6s %s", help.Key, help.Desc))
	}
	box := tui.RenderBox(model.renderer, model.theme, "Keys", rows)
	anchorX := max((model.width-ansi.StringWidth(box[0]))/2, 0)
	anchorY := max((model.height-len(box))/2, 0)
	return tui.SpliceOverlay(view, box, anchorX, anchorY)
}

// Matches returns the number of lines matching the current query.
func (model Model) Matches() int { return len(model.matches) }

// CurrentLine returns the document line of the current match, or -1.
func (model Model) CurrentLine() int {
	if len(model.matches) == 0 {
		return -1
	}
	return model.matches[model.current].Index
}

// Offset returns the first visible document line.
func (model Model) Offset() int { return model.viewport.YOffset }
