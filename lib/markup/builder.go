// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package markup

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// ErrUnbalanced is returned by [Builder.CloseTag] when no tag is open.
var ErrUnbalanced = errors.New("markup: close without open tag")

// Attrs maps attribute names to values.
type Attrs map[string]string

const indentUnit = "  "

var escaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	"&", "&amp;",
	"'", "&apos;",
	`"`, "&quot;",
	"\r", "&#13;",
)

// Escape returns value with markup-significant characters replaced by
// entity references.
func Escape(value string) string {
	return escaper.Replace(value)
}

// Builder writes indented markup lines to an io.Writer.
type Builder struct {
	writer io.Writer
	stack  []string
	err    error
}

// New returns a builder writing to writer at depth 0.
func New(writer io.Writer) *Builder {
	return &Builder{writer: writer}
}

// Depth returns the number of currently open tags.
func (b *Builder) Depth() int { return len(b.stack) }

// Err returns the first write error, if any.
func (b *Builder) Err() error { return b.err }

// EmitLine writes text verbatim at the current indentation. The caller
// is responsible for escaping.
func (b *Builder) EmitLine(text string) {
	if b.err != nil {
		return
	}
	_, b.err = fmt.Fprintf(b.writer, "%s%s\n", strings.Repeat(indentUnit, len(b.stack)), text)
}

// Text writes escaped character data on its own line.
func (b *Builder) Text(text string) {
	b.EmitLine(Escape(text))
}

// Comment writes a standalone <!-- text --> line.
func (b *Builder) Comment(text string) {
	b.EmitLine("<!-- " + text + " -->")
}

// OpenTag writes <name attrs> and increases the depth.
func (b *Builder) OpenTag(name string, attrs Attrs) {
	b.EmitLine("<" + name + renderAttrs(attrs) + ">")
	b.stack = append(b.stack, name)
}

// CloseTag writes the closing tag for the innermost open tag.
func (b *Builder) CloseTag() error {
	if len(b.stack) == 0 {
		return ErrUnbalanced
	}
	name := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.EmitLine("</" + name + ">")
	return b.err
}

// Element writes a self-closing <name attrs/>.
func (b *Builder) Element(name string, attrs Attrs) {
	b.EmitLine("<" + name + renderAttrs(attrs) + "/>")
}

// Tag writes name as an open/close pair around body. The closing tag is
// written even when body fails, so a partial document stays balanced.
// The body's error takes precedence over write errors.
func (b *Builder) Tag(name string, attrs Attrs, body func() error) error {
	b.OpenTag(name, attrs)
	bodyErr := body()
	closeErr := b.CloseTag()
	if bodyErr != nil {
		return bodyErr
	}
	return closeErr
}

// Leaf writes <tag>value</tag> with an optional trailing comment. The
// value is escaped.
func (b *Builder) Leaf(tag, value, comment string) {
	b.EmitLine("<" + tag + ">" + Escape(value) + "</" + tag + ">" + trailer(comment))
}

// Marker writes an empty <tag /> with an optional trailing comment.
// Booleans are rendered as <yes /> or <no />.
func (b *Builder) Marker(tag, comment string) {
	b.EmitLine("<" + tag + " />" + trailer(comment))
}

func trailer(comment string) string {
	if comment == "" {
		return ""
	}
	return "<!-- " + comment + " -->"
}

func renderAttrs(attrs Attrs) string {
	if len(attrs) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		fmt.Fprintf(&builder, ` %s="%s"`, name, Escape(attrs[name]))
	}
	return builder.String()
}
