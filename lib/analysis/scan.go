// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"encoding/binary"
	"regexp"
	"strings"

	"github.com/bureau-foundation/uidecode/lib/block"
	"github.com/bureau-foundation/uidecode/lib/bytecursor"
)

// minStringLength is the shortest length prefix the scan trusts.
// Shorter prefixes are overwhelmingly small integers, not strings.
const minStringLength = 4

const (
	eventsEndAnchor = "events_end"
	newStateToken   = "NewState"
)

// fontPrefixes lists the lowercase name prefixes of the fonts shipped
// with the engine's UI.
var fontPrefixes = []string{
	"arial",
	"bold_",
	"courier",
	"georgia",
	"ingramar",
	"la_gioconda",
	"norse",
	"tahoma",
	"times",
	"trajan",
	"verdana",
}

const pathSeparators = `/\`

var (
	t0Pattern      = regexp.MustCompile(`^[a-z]+_t0$`)
	// The extension ends the string or a path component: "foo.png/x"
	// is a path, "a.pngx" is not.
	imageExtension = regexp.MustCompile(`\.(png|tga)(?:$|[/\\])`)
)

// Classify picks the kind of a printable ASCII string. The checks run
// in a fixed priority order and exactly one kind is returned.
func Classify(text string) block.Kind {
	switch {
	case strings.ContainsAny(text, pathSeparators) && imageExtension.MatchString(text):
		return block.ImagePath
	case hasFontPrefix(text):
		return block.FontName
	case t0Pattern.MatchString(text):
		return block.T0Token
	case text == eventsEndAnchor:
		return block.EventList
	case text == newStateToken:
		return block.NewStateToken
	default:
		return block.AsciiString
	}
}

func hasFontPrefix(text string) bool {
	lower := strings.ToLower(text)
	for _, prefix := range fontPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// printableText reports whether every byte is printable ASCII, CR, LF,
// or TAB.
func printableText(raw []byte) bool {
	for _, value := range raw {
		if !printableByte(value) {
			return false
		}
	}
	return true
}

func printableByte(value byte) bool {
	return (value >= 0x20 && value < 0x7f) || value == '\r' || value == '\n' || value == '\t'
}

// printableUTF16 reports whether raw is a sequence of code units whose
// low byte is printable and whose high byte is zero.
func printableUTF16(raw []byte) bool {
	for index := 0; index+1 < len(raw); index += 2 {
		if !printableByte(raw[index]) || raw[index+1] != 0 {
			return false
		}
	}
	return len(raw)%2 == 0
}

// scanStrings walks the buffer from the end of the header looking for
// u16 length-prefixed strings. Anything that does not look like a
// string is skipped one byte at a time; the report shows it as raw
// data later.
func (a *Analyzer) scanStrings() {
	size := len(a.data)
	offset := bytecursor.HeaderSize
	found := 0
	for offset+2 <= size {
		length := int(binary.LittleEndian.Uint16(a.data[offset:]))
		if length < minStringLength {
			offset++
			continue
		}
		body := offset + 2

		if end := body + length; end <= size && printableText(a.data[body:end]) {
			text := string(a.data[body:end])
			a.arena.Add(a.stringBlock(Classify(text), offset, end, text))
			offset = end
			found++
			continue
		}

		if end := body + 2*length; end <= size && printableUTF16(a.data[body:end]) {
			text := bytecursor.DecodeUTF16Units(a.data[body:end])
			a.arena.Add(block.New(block.UnicodeString, offset, end, block.Text{Value: text}))
			offset = end
			found++
			continue
		}

		offset++
	}
	a.logger.Debug("string scan", "strings", found)
}

func (a *Analyzer) stringBlock(kind block.Kind, start, end int, text string) block.Block {
	if kind == block.EventList {
		return block.New(kind, start, end, block.Events{
			Anchor: block.Span{Start: start, End: end},
		})
	}
	return block.New(kind, start, end, block.Text{Value: text})
}
