// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package decoder

import (
	"fmt"
	"strconv"

	"github.com/bureau-foundation/uidecode/lib/markup"
)

// Version thresholds at which the layout grammar changes shape. Field
// level thresholds live in the schedules below; these are the ones the
// interpreter itself branches on.
const (
	eventsVersion         = 94
	additionalDataVersion = 54
	typedChildrenVersion  = 100
)

// Child kinds of typed children lists.
const (
	childEntry    = 0
	childTemplate = 1
)

const eventsEnd = "events_end"

// cmlPair is one key/value record of a version 2 file.
var cmlPair = Schedule{
	always(tagged("key", str(""))),
	always(tagged("value", str(""))),
}

// fontCatalogEntry is one .fc record. Most fields have no known meaning.
var fontCatalogEntry = Schedule{
	always(str("")),
	always(u32("")),
	always(str("")),
	always(u32("")),
	always(u32("")),
	from(50, u32("")),
	from(50, u32("")),
	from(51, u32("")),
	always(color("")),
	from(53, str("")),
	from(52, str("T0")),
	from(52, times(4, u32(""))),
}

var imageRecord = Schedule{
	always(u32("ID")),
	always(str("path")),
	always(u32("x size")),
	always(u32("y size")),
	always(u32("mask or color")),
}

// imageUse is 24 bytes up to the color; later versions append fields.
var imageUse = Schedule{
	always(u32("image ID")),
	always(i32("x offset")),
	always(i32("y offset")),
	always(u32("x size")),
	always(u32("y size")),
	always(color("color")),
	from(86, flag("tiled")),
	from(106, times(4, i32("margin"))),
}

var transition = Schedule{
	always(u32("target state")),
	always(str("event")),
}

var mouseState = Schedule{
	always(u32("mouse state")),
	always(u32("target state id")),
	always(list("events", "", Schedule{always(str("event"))})),
}

var state = Schedule{
	always(u32("ID")),
	always(str("title")),
	always(i32("x size")),
	always(i32("y size")),
	always(uni("state text")),
	always(uni("tooltip")),
	always(times(5, i32("text bounds"))),
	always(flag("text wraps")),
	always(uni("localization id")),
	always(uni("tooltip id")),
	from(44, str("font name")),
	from(44, u32("font size")),
	from(44, u32("line spacing")),
	always(color("font color")),
	from(54, str("shader")),
	from(83, times(4, f32("shader variable"))),
	always(list("imageuses", "imageuse", imageUse)),
	until(73, list("transitions", "transition", transition)),
	from(74, list("mousestates", "mousestate", mouseState)),
}

var animationFrame = Schedule{
	always(f32("x")),
	always(f32("y")),
	always(f32("scale x")),
	always(f32("scale y")),
	always(color("")),
	always(u32("duration")),
	from(97, u32("interpolation")),
}

var function = Schedule{
	always(str("name")),
	from(90, u32("hash")),
	always(list("frames", "frame", animationFrame)),
}

// entry is the recursive layout record. Generation 1 covers versions up
// to 54 and generation 2 from 55; rows gated at 54/55 are where the two
// differ. Before 49 the tooltip pair is followed by an i32 in place of
// the default state id, and two i32 values sit between the image and
// state lists.
var entry = Schedule{
	always(u32("ID")),
	from(55, zero16("always zero")),
	always(str("title")),
	from(43, str("title2")),
	always(i32("x offset")),
	always(i32("y offset")),
	always(flag("visible")),
	always(flag("disabled")),
	always(flag("interactive")),
	always(flag("unknown flag 4")),
	always(flag("unknown flag 5")),
	always(flag("unknown flag 6")),
	until(43, flag("unknown flag 7")),
	from(44, flag("propagate state")),
	from(49, flag("unknown flag 9")),
	from(90, flag("lock position")),
	until(54, str("parent name")),
	until(54, i32("unknown")),
	always(uni("tooltip")),
	always(uni("tooltip id")),
	until(48, i32("unknown")),
	from(49, u32("default state id")),
	until(54, str("script")),
	from(55, zeroU32("always zero")),
	from(77, u32("dock point")),
	from(77, i32("dock x")),
	from(77, i32("dock y")),
	from(78, flag("propagate visibility")),
	always(list("images", "image", imageRecord)),
	until(48, times(2, i32("unknown"))),
	always(list("states", "state", state)),
	from(eventsVersion, Field{Kind: FieldEvents}),
	from(49, list("dynamics", "dynamic", Schedule{always(str("key")), always(str("value"))})),
	always(list("functions", "function", function)),
	always(Field{Kind: FieldChildren}),
	from(additionalDataVersion, Field{Kind: FieldAdditionalData}),
	from(103, u32("z order")),
	from(110, str("component category")),
	from(113, flag("unknown trailing flag")),
}

// template is the alternate child record of typed children lists.
var template = Schedule{
	always(str("template name")),
	always(u32("ID")),
	always(str("title")),
	always(i32("x offset")),
	always(i32("y offset")),
	always(Field{Kind: FieldChildren}),
}

// additionalLayouts maps each known discriminator to its layout.
var additionalLayouts = map[string]Schedule{
	"List": {
		always(u32("item spacing")),
		always(i32("x margin")),
		always(i32("y margin")),
		from(97, u32("item spacing 2")),
	},
	"HorizontalList": {
		always(u32("item spacing")),
		always(flag("right to left")),
	},
	"Table": {
		always(u32("column count")),
		from(113, u32("row count")),
		always(list("columns", "", Schedule{always(u32("column width"))})),
	},
}

// EntryFields returns the layout entry fields active at version. It
// exposes the version matrix for inspection and tests.
func EntryFields(version int) []Field {
	return entry.Fields(version)
}

// decodeEntry writes one <uientry>. The entry start is a checkpoint.
func (m *machine) decodeEntry() error {
	m.mark()
	return m.sink.Tag("uientry", nil, func() error {
		return m.run(entry)
	})
}

func (m *machine) decodeTemplate() error {
	m.mark()
	return m.sink.Tag("template", nil, func() error {
		return m.run(template)
	})
}

// events reads event names up to and including the events_end
// terminator.
func (m *machine) events() error {
	return m.sink.Tag("events", nil, func() error {
		for {
			name, err := m.cursor.Latin1()
			if err != nil {
				return err
			}
			if name == eventsEnd {
				m.sink.Leaf("s", name, "end of events")
				return nil
			}
			m.sink.Leaf("s", name, "event")
		}
	})
}

// children reads the child list. Before version 100 every child is a
// layout entry of the same generation; from 100 each child starts with
// a u16 kind.
func (m *machine) children() error {
	count, err := m.count()
	if err != nil {
		return err
	}
	return m.sink.Tag("children", markup.Attrs{"count": strconv.Itoa(count)}, func() error {
		for range count {
			if err := m.child(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *machine) child() error {
	if !m.ctx.TypedChildren {
		return m.decodeEntry()
	}
	start := m.cursor.Offset()
	kind, err := m.cursor.U16()
	if err != nil {
		return err
	}
	switch kind {
	case childEntry:
		m.sink.Leaf("u16", strconv.Itoa(int(kind)), "child kind: entry")
		return m.decodeEntry()
	case childTemplate:
		m.sink.Leaf("u16", strconv.Itoa(int(kind)), "child kind: template")
		return m.decodeTemplate()
	default:
		// Rewind so the diagnostic dump starts at the unknown tag.
		if err := m.cursor.Rewind(start); err != nil {
			return err
		}
		return fmt.Errorf("%w: child kind %d at offset %d", ErrUnknownDiscriminator, kind, start)
	}
}

// additionalData reads the discriminator string and the variant it
// selects. An empty discriminator means the entry has none.
func (m *machine) additionalData() error {
	start := m.cursor.Offset()
	discriminator, err := m.cursor.Latin1()
	if err != nil {
		return err
	}
	if discriminator == "" {
		m.sink.Leaf("s", "", "no additional data")
		return nil
	}
	layout, known := additionalLayouts[discriminator]
	if !known {
		if err := m.cursor.Rewind(start); err != nil {
			return err
		}
		return fmt.Errorf("%w: additional data type %q at offset %d",
			ErrUnknownDiscriminator, discriminator, start)
	}
	m.sink.Leaf("s", discriminator, "additional data type")
	return m.sink.Tag("additionaldata", markup.Attrs{"type": discriminator}, func() error {
		return m.run(layout)
	})
}
