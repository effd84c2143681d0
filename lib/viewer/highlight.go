// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color modes accepted by [ProfileFor].
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ProfileFor decides the color profile for output written to file.
// "auto" colors only terminals and honors NO_COLOR and CLICOLOR_FORCE;
// "always" forces at least 256 colors; "never" disables color.
func ProfileFor(mode string, file *os.File) (termenv.Profile, error) {
	switch mode {
	case ColorNever:
		return termenv.Ascii, nil
	case ColorAlways:
		profile := termenv.NewOutput(file).EnvColorProfile()
		if profile > termenv.ANSI256 {
			// Lower values carry more color; Ascii is the highest.
			profile = termenv.ANSI256
		}
		return profile, nil
	case ColorAuto, "":
		if !term.IsTerminal(int(file.Fd())) {
			return termenv.Ascii, nil
		}
		return termenv.NewOutput(file).EnvColorProfile(), nil
	default:
		return termenv.Ascii, fmt.Errorf("viewer: unknown color mode %q (want auto, always, or never)", mode)
	}
}

// formatterFor maps a termenv profile to a chroma terminal formatter.
// Ascii has none.
func formatterFor(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	default:
		return ""
	}
}

// highlightStyle is the chroma style for markup documents.
const highlightStyle = "monokai"

// Highlight writes source, a markup document, to writer with syntax
// colors for profile. With the Ascii profile, or when chroma fails,
// the text is written unchanged.
func Highlight(writer io.Writer, source string, profile termenv.Profile) error {
	formatter := formatterFor(profile)
	if formatter == "" {
		_, err := io.WriteString(writer, source)
		return err
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, source, "xml", formatter, highlightStyle); err != nil {
		_, err := io.WriteString(writer, source)
		return err
	}
	_, err := io.WriteString(writer, buffer.String())
	return err
}

// highlightLines highlights source and splits it into lines. The
// result always has as many lines as source; if highlighting changes
// the line structure the plain lines are returned.
func highlightLines(plain []string, profile termenv.Profile) []string {
	if formatterFor(profile) == "" {
		return plain
	}
	var buffer strings.Builder
	if err := Highlight(&buffer, strings.Join(plain, "\n"), profile); err != nil {
		return plain
	}
	styled := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	if len(styled) != len(plain) {
		return plain
	}
	return styled
}
