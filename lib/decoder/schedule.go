// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package decoder

import (
	"fmt"
	"strconv"

	"github.com/bureau-foundation/uidecode/lib/bytecursor"
	"github.com/bureau-foundation/uidecode/lib/markup"
)

// FieldKind selects how a field is read and rendered.
type FieldKind int

const (
	// FieldU32 is a u32 rendered as <u>.
	FieldU32 FieldKind = iota + 1
	// FieldI32 is an i32 rendered as <i>.
	FieldI32
	// FieldByte is a u8 rendered as <byte>.
	FieldByte
	// FieldF32 is a float rendered as <f> with display rounding.
	FieldF32
	// FieldLatin1 is a u16-prefixed Latin-1 string rendered as <s>.
	FieldLatin1
	// FieldUnicode is a u16-prefixed UTF-16LE string rendered as <unicode>.
	FieldUnicode
	// FieldBool is a 0/1 byte rendered as <yes /> or <no />.
	FieldBool
	// FieldZero16 is a u16 asserted to be zero.
	FieldZero16
	// FieldZeroU32 is a u32 asserted to be zero.
	FieldZeroU32
	// FieldColor is four bytes in blue, green, red, alpha order.
	FieldColor
	// FieldList is a u32 count followed by count element records.
	FieldList
	// FieldEvents is a run of strings terminated by "events_end".
	FieldEvents
	// FieldChildren is a u32 count followed by child entries.
	FieldChildren
	// FieldAdditionalData is a discriminator string and its variant.
	FieldAdditionalData
)

// Field describes one element of a record.
type Field struct {
	Kind FieldKind
	// Tag overrides the default leaf tag, or names the list element.
	Tag string
	// Item wraps each list element. Empty means elements are written
	// directly inside the list tag.
	Item string
	// Comment is the advisory description written after the value.
	Comment string
	// Repeat reads the field this many times. Zero means once.
	Repeat int
	// Elements is the schedule of each list element.
	Elements Schedule
}

// Entry gates a field on an inclusive version range.
type Entry struct {
	Min   int
	Max   int
	Field Field
}

// Active reports whether the entry applies to version.
func (e Entry) Active(version int) bool {
	return version >= e.Min && version <= e.Max
}

// Schedule is the ordered field list of one record type.
type Schedule []Entry

// Fields returns the fields active at version, in order.
func (s Schedule) Fields(version int) []Field {
	var fields []Field
	for _, entry := range s {
		if entry.Active(version) {
			fields = append(fields, entry.Field)
		}
	}
	return fields
}

const (
	anyVersion = 0
	maxVersion = 999
)

func always(field Field) Entry          { return Entry{Min: anyVersion, Max: maxVersion, Field: field} }
func from(first int, field Field) Entry { return Entry{Min: first, Max: maxVersion, Field: field} }
func until(last int, field Field) Entry { return Entry{Min: anyVersion, Max: last, Field: field} }

func u32(comment string) Field     { return Field{Kind: FieldU32, Comment: comment} }
func i32(comment string) Field     { return Field{Kind: FieldI32, Comment: comment} }
func f32(comment string) Field     { return Field{Kind: FieldF32, Comment: comment} }
func str(comment string) Field     { return Field{Kind: FieldLatin1, Comment: comment} }
func uni(comment string) Field     { return Field{Kind: FieldUnicode, Comment: comment} }
func flag(comment string) Field    { return Field{Kind: FieldBool, Comment: comment} }
func zero16(comment string) Field  { return Field{Kind: FieldZero16, Comment: comment} }
func zeroU32(comment string) Field { return Field{Kind: FieldZeroU32, Comment: comment} }
func color(comment string) Field   { return Field{Kind: FieldColor, Comment: comment} }

func times(count int, field Field) Field {
	field.Repeat = count
	return field
}

func tagged(tag string, field Field) Field {
	field.Tag = tag
	return field
}

func list(tag, item string, elements Schedule) Field {
	return Field{Kind: FieldList, Tag: tag, Item: item, Elements: elements}
}

// machine interprets schedules against one cursor and one sink.
type machine struct {
	ctx        Context
	cursor     *bytecursor.Cursor
	sink       *markup.Builder
	checkpoint int
}

// mark records the current offset as the last aligned position.
func (m *machine) mark() {
	m.checkpoint = m.cursor.Offset()
}

func (m *machine) run(schedule Schedule) error {
	for _, entry := range schedule {
		if !entry.Active(m.ctx.Version) {
			continue
		}
		repeat := max(entry.Field.Repeat, 1)
		for range repeat {
			if err := m.field(entry.Field); err != nil {
				return err
			}
		}
	}
	return nil
}

func leafTag(field Field, fallback string) string {
	if field.Tag != "" {
		return field.Tag
	}
	return fallback
}

func (m *machine) field(field Field) error {
	switch field.Kind {
	case FieldU32:
		value, err := m.cursor.U32()
		if err != nil {
			return err
		}
		m.sink.Leaf(leafTag(field, "u"), strconv.FormatUint(uint64(value), 10), field.Comment)
	case FieldI32:
		value, err := m.cursor.I32()
		if err != nil {
			return err
		}
		m.sink.Leaf(leafTag(field, "i"), strconv.FormatInt(int64(value), 10), field.Comment)
	case FieldByte:
		value, err := m.cursor.U8()
		if err != nil {
			return err
		}
		m.sink.Leaf(leafTag(field, "byte"), strconv.Itoa(int(value)), field.Comment)
	case FieldF32:
		value, err := m.cursor.F32()
		if err != nil {
			return err
		}
		m.sink.Leaf(leafTag(field, "f"), value.Display, field.Comment)
	case FieldLatin1:
		value, err := m.cursor.Latin1()
		if err != nil {
			return err
		}
		m.sink.Leaf(leafTag(field, "s"), value, field.Comment)
	case FieldUnicode:
		value, err := m.cursor.Unicode()
		if err != nil {
			return err
		}
		m.sink.Leaf(leafTag(field, "unicode"), value, field.Comment)
	case FieldBool:
		value, err := m.cursor.Bool()
		if err != nil {
			return err
		}
		if value {
			m.sink.Marker("yes", field.Comment)
		} else {
			m.sink.Marker("no", field.Comment)
		}
	case FieldZero16:
		if err := m.cursor.Zero16(); err != nil {
			return err
		}
		m.sink.Leaf(leafTag(field, "zero"), "0", field.Comment)
	case FieldZeroU32:
		if err := m.cursor.ZeroU32(); err != nil {
			return err
		}
		m.sink.Leaf(leafTag(field, "zero"), "0", field.Comment)
	case FieldColor:
		return m.color(field.Comment)
	case FieldList:
		return m.list(field)
	case FieldEvents:
		return m.events()
	case FieldChildren:
		return m.children()
	case FieldAdditionalData:
		return m.additionalData()
	default:
		return fmt.Errorf("decoder: field kind %d has no reader", int(field.Kind))
	}
	return nil
}

func (m *machine) color(comment string) error {
	for _, channel := range []string{"B", "G", "R", "A"} {
		value, err := m.cursor.U8()
		if err != nil {
			return err
		}
		label := channel
		if comment != "" {
			label = comment + " " + channel
		}
		m.sink.Leaf("byte", strconv.Itoa(int(value)), label)
	}
	return nil
}

// count reads a u32 element count. Every element consumes at least one
// byte, so a count larger than the remaining bytes cannot be satisfied
// and fails before any element is written.
func (m *machine) count() (int, error) {
	start := m.cursor.Offset()
	value, err := m.cursor.U32()
	if err != nil {
		return 0, err
	}
	if remaining := m.cursor.Remaining(); uint64(value) > uint64(remaining) {
		// Rewind so the error offset and the diagnostic dump start at the
		// count itself.
		if err := m.cursor.Rewind(start); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: count %d at offset %d exceeds %d remaining bytes",
			ErrOutOfBounds, value, start, remaining)
	}
	return int(value), nil
}

func (m *machine) list(field Field) error {
	count, err := m.count()
	if err != nil {
		return err
	}
	return m.sink.Tag(field.Tag, markup.Attrs{"count": strconv.Itoa(count)}, func() error {
		for range count {
			m.mark()
			if field.Item == "" {
				if err := m.run(field.Elements); err != nil {
					return err
				}
				continue
			}
			if err := m.sink.Tag(field.Item, nil, func() error {
				return m.run(field.Elements)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
