// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"errors"
	"fmt"
)

// ErrInvalidBlock is returned by [Block.Validate].
var ErrInvalidBlock = errors.New("block: invalid block")

// Payload is the decoded content of a block. The set of
// implementations is closed: [Number], [Text], [Events], [ImageInfo],
// [UseInfo], [List], and [OffsetPair].
type Payload interface {
	payload()
}

// Number is a single decoded integer (version, root id, state id,
// dimension marker).
type Number struct {
	Value uint32
}

// Text is a decoded string.
type Text struct {
	Value string
}

// Events is the ordered list of event names preceding an "events_end"
// anchor. Children holds the absorbed string blocks; Anchor is the span
// of the anchor string itself.
type Events struct {
	Names    []string
	Children []Block
	Anchor   Span
}

// ImageInfo is an image record found around an ImagePath.
type ImageInfo struct {
	ID    uint32
	Path  string
	XSize uint32
	YSize uint32
	// Unknown is the trailing u32 after the dimensions, observed to be a
	// mask or color value.
	Unknown uint32
}

// UseInfo is the fixed 24-byte image use record.
type UseInfo struct {
	ImageID uint32
	XOffset int32
	YOffset int32
	XSize   uint32
	YSize   uint32
	// Color is in file order: blue, green, red, alpha.
	Color [4]byte
}

// List is a counted list. Declared is the u32 header value; Children
// are the absorbed element blocks in order.
type List struct {
	Declared uint32
	Children []Block
}

// OffsetPair is the x/y offset pair of a root entry.
type OffsetPair struct {
	X int32
	Y int32
}

func (Number) payload()     {}
func (Text) payload()       {}
func (Events) payload()     {}
func (ImageInfo) payload()  {}
func (UseInfo) payload()    {}
func (List) payload()       {}
func (OffsetPair) payload() {}

// Block is a classified span of the input buffer.
type Block struct {
	Span
	Kind    Kind
	Payload Payload
}

// New returns a block covering [start, end).
func New(kind Kind, start, end int, payload Payload) Block {
	return Block{Span: Span{Start: start, End: end}, Kind: kind, Payload: payload}
}

// String renders the block as "Kind[start...end]".
func (b Block) String() string {
	return fmt.Sprintf("%s[%d...%d]", b.Kind, b.Start, b.End)
}

// Text returns the string payload, or "" when the payload is not [Text].
func (b Block) Text() string {
	if text, ok := b.Payload.(Text); ok {
		return text.Value
	}
	return ""
}

// Children returns the blocks owned by a list or event list.
func (b Block) Children() []Block {
	switch payload := b.Payload.(type) {
	case List:
		return payload.Children
	case Events:
		return payload.Children
	default:
		return nil
	}
}

// Validate checks the span bounds against size and that the payload
// type matches the kind.
func (b Block) Validate(size int) error {
	if b.Start < 0 || b.Start > b.End || b.End > size {
		return fmt.Errorf("%w: %s span [%d,%d) outside buffer of %d bytes",
			ErrInvalidBlock, b.Kind, b.Start, b.End, size)
	}
	var ok bool
	switch b.Kind {
	case Version, RootID, StateIDMarker, XSize, YSize:
		_, ok = b.Payload.(Number)
	case RawData:
		ok = b.Payload == nil
	case AsciiString, UnicodeString, ImagePath, FontName, T0Token, NewStateToken:
		_, ok = b.Payload.(Text)
	case EventList:
		_, ok = b.Payload.(Events)
	case Image:
		_, ok = b.Payload.(ImageInfo)
	case ImageUse:
		_, ok = b.Payload.(UseInfo)
	case U32List, ImageList, ImagePathList:
		_, ok = b.Payload.(List)
	case Offsets:
		_, ok = b.Payload.(OffsetPair)
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidBlock, uint8(b.Kind))
	}
	if !ok {
		return fmt.Errorf("%w: %s carries %T", ErrInvalidBlock, b.Kind, b.Payload)
	}
	return nil
}
