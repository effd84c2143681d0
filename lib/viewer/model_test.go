// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// testDocument has 50 lines; lines 30 and 45 are the only ones
// containing "needle".
func testDocument() Document {
	var builder strings.Builder
	builder.WriteString("<document>\n")
	for line := 1; line < 50; line++ {
		switch line {
		case 30:
			builder.WriteString("  <needle a=\"1\"/>\n")
		case 45:
			builder.WriteString("  <needle b=\"2\"/>\n")
		default:
			fmt.Fprintf(&builder, "  <item id=\"%d\"/>\n", line)
		}
	}
	return Document{
		Title:  "game/settings.cml",
		Status: "ok",
		Detail: "cml002",
		Text:   builder.String(),
	}
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func send(t *testing.T, model Model, messages ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var command tea.Cmd
	for _, message := range messages {
		var updated tea.Model
		updated, command = model.Update(message)
		model = updated.(Model)
	}
	return model, command
}

func sizedModel(t *testing.T) Model {
	t.Helper()
	model := NewModel(testDocument(), Options{Profile: termenv.Ascii})
	model, _ = send(t, model, tea.WindowSizeMsg{Width: 80, Height: 12})
	return model
}

func TestView_BeforeSize(t *testing.T) {
	model := NewModel(testDocument(), Options{Profile: termenv.Ascii})
	if view := model.View(); view != "" {
		t.Errorf("View before WindowSizeMsg = %q, want empty", view)
	}
}

func TestView_Layout(t *testing.T) {
	model := sizedModel(t)
	view := ansi.Strip(model.View())
	lines := strings.Split(view, "\n")
	if len(lines) != 12 {
		t.Fatalf("view has %d lines, want 12", len(lines))
	}
	if !strings.HasPrefix(lines[0], "game/settings.cml") || !strings.HasSuffix(lines[0], "ok cml002") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "<document>") {
		t.Errorf("first body line = %q", lines[1])
	}
	if !strings.Contains(lines[11], "lines 1-10 of 50") {
		t.Errorf("status line = %q", lines[11])
	}
}

func TestUpdate_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want int
	}{
		{name: "down", keys: []tea.Msg{runes("j"), runes("j")}, want: 2},
		{name: "down then up", keys: []tea.Msg{runes("j"), runes("k")}, want: 0},
		{name: "up clamps", keys: []tea.Msg{runes("k")}, want: 0},
		{name: "page down", keys: []tea.Msg{tea.KeyMsg{Type: tea.KeyPgDown}}, want: 10},
		{name: "bottom", keys: []tea.Msg{runes("G")}, want: 40},
		{name: "bottom then top", keys: []tea.Msg{runes("G"), runes("g")}, want: 0},
		{name: "wheel", keys: []tea.Msg{tea.MouseMsg{Button: tea.MouseButtonWheelDown}}, want: 3},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			model, _ := send(t, sizedModel(t), test.keys...)
			if model.Offset() != test.want {
				t.Errorf("Offset = %d, want %d", model.Offset(), test.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	model, _ := send(t, sizedModel(t), runes("/"), runes("needle"))
	if model.Matches() != 2 {
		t.Fatalf("Matches = %d, want 2", model.Matches())
	}
	if model.CurrentLine() != 30 {
		t.Errorf("CurrentLine = %d, want 30", model.CurrentLine())
	}
	if model.Offset() != 27 {
		t.Errorf("Offset = %d, want 27", model.Offset())
	}
	if status := ansi.Strip(model.View()); !strings.Contains(status, "/ needle") {
		t.Errorf("search bar missing from view:\n%s", status)
	}

	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyEnter}, runes("n"))
	if model.CurrentLine() != 45 {
		t.Errorf("after n: CurrentLine = %d, want 45", model.CurrentLine())
	}
	if model.Offset() != 40 {
		t.Errorf("after n: Offset = %d, want 40 (clamped)", model.Offset())
	}
	if view := ansi.Strip(model.View()); !strings.Contains(view, "search: needle (2/2)") {
		t.Errorf("status missing match position:\n%s", view)
	}

	model, _ = send(t, model, runes("N"))
	if model.CurrentLine() != 30 {
		t.Errorf("after N: CurrentLine = %d, want 30", model.CurrentLine())
	}

	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.Matches() != 0 || model.CurrentLine() != -1 {
		t.Errorf("after esc: Matches = %d, CurrentLine = %d", model.Matches(), model.CurrentLine())
	}
}

func TestSearch_Backspace(t *testing.T) {
	model, _ := send(t, sizedModel(t), runes("/"), runes("needlex"))
	if model.Matches() != 0 {
		t.Fatalf("Matches for needlex = %d, want 0", model.Matches())
	}
	model, _ = send(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	if model.Matches() != 2 {
		t.Errorf("Matches after backspace = %d, want 2", model.Matches())
	}
}

func TestSearch_NoMatches(t *testing.T) {
	model, _ := send(t, sizedModel(t), runes("/"), runes("qqqq"), tea.KeyMsg{Type: tea.KeyEnter})
	if view := ansi.Strip(model.View()); !strings.Contains(view, "(no matches)") {
		t.Errorf("view does not report no matches:\n%s", view)
	}
	// n with no matches is a no-op.
	model, _ = send(t, model, runes("n"))
	if model.Offset() != 0 {
		t.Errorf("Offset = %d, want 0", model.Offset())
	}
}

func TestHelpOverlay(t *testing.T) {
	model, _ := send(t, sizedModel(t), runes("?"))
	if view := ansi.Strip(model.View()); !strings.Contains(view, "fuzzy search") {
		t.Fatalf("help overlay missing:\n%s", view)
	}
	// Any key closes the overlay without acting.
	model, _ = send(t, model, runes("j"))
	if view := ansi.Strip(model.View()); strings.Contains(view, "fuzzy search") {
		t.Error("help overlay still shown")
	}
	if model.Offset() != 0 {
		t.Errorf("key closing help also scrolled: Offset = %d", model.Offset())
	}
}

func TestQuit(t *testing.T) {
	for _, message := range []tea.Msg{runes("q"), tea.KeyMsg{Type: tea.KeyCtrlC}} {
		_, command := send(t, sizedModel(t), message)
		if command == nil {
			t.Fatalf("%v: no command returned", message)
		}
		if _, ok := command().(tea.QuitMsg); !ok {
			t.Errorf("%v: command did not quit", message)
		}
	}
	// Typing q into the search bar does not quit.
	_, command := send(t, sizedModel(t), runes("/"), runes("q"))
	if command != nil {
		t.Error("q while searching returned a command")
	}
}

func TestHighlight_Ascii(t *testing.T) {
	var builder strings.Builder
	source := "<a b=\"1\"/>\n"
	if err := Highlight(&builder, source, termenv.Ascii); err != nil {
		t.Fatal(err)
	}
	if builder.String() != source {
		t.Errorf("Highlight = %q, want unchanged", builder.String())
	}
}

func TestHighlight_Color(t *testing.T) {
	var builder strings.Builder
	source := "<a b=\"1\"/>\n<c/>\n"
	if err := Highlight(&builder, source, termenv.ANSI256); err != nil {
		t.Fatal(err)
	}
	if builder.String() == source {
		t.Error("Highlight with ANSI256 produced no escapes")
	}
	if ansi.Strip(builder.String()) != source {
		t.Errorf("stripped output = %q, want %q", ansi.Strip(builder.String()), source)
	}
}

func TestHighlightLines_PreservesLineCount(t *testing.T) {
	plain := []string{"<a>", "  <b x=\"1\"/>", "</a>"}
	styled := highlightLines(plain, termenv.TrueColor)
	if len(styled) != len(plain) {
		t.Fatalf("got %d lines, want %d", len(styled), len(plain))
	}
	for index := range plain {
		if ansi.Strip(styled[index]) != plain[index] {
			t.Errorf("line %d = %q, want %q", index, ansi.Strip(styled[index]), plain[index])
		}
	}
}

func TestProfileFor_Unknown(t *testing.T) {
	if _, err := ProfileFor("sometimes", nil); err == nil {
		t.Error("ProfileFor accepted an unknown mode")
	}
}
