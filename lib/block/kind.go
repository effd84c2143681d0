// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import "fmt"

// Kind is the variant tag of a [Block].
type Kind uint8

const (
	// Version is the 10-byte "VersionNNN" header. Payload: [Number].
	Version Kind = iota + 1
	// RootID is the u32 preceding the legacy "root" entry. Payload: [Number].
	RootID
	// RawData is an unclassified region. Payload: none.
	RawData
	// AsciiString is a printable length-prefixed string. Payload: [Text].
	AsciiString
	// UnicodeString is a length-prefixed UTF-16LE string. Payload: [Text].
	UnicodeString
	// ImagePath is an ASCII string naming a .png or .tga file. Payload: [Text].
	ImagePath
	// FontName is an ASCII string matching a known font prefix. Payload: [Text].
	FontName
	// T0Token is an ASCII string of the form "<lowercase>_t0". Payload: [Text].
	T0Token
	// NewStateToken is the literal string "NewState". Payload: [Text].
	NewStateToken
	// EventList is an "events_end" anchor together with the event names
	// absorbed before it. Payload: [Events].
	EventList
	// Image is an image record: id, path, and dimensions. Payload: [ImageInfo].
	Image
	// ImageUse is a 24-byte reference to an image id. Payload: [UseInfo].
	ImageUse
	// U32List is a u32 count followed by that many contiguous blocks.
	// Payload: [List].
	U32List
	// ImageList is a U32List of Image blocks. Payload: [List].
	ImageList
	// ImagePathList is a U32List of ImagePath blocks. Payload: [List].
	ImagePathList
	// StateIDMarker is the u32 state id preceding a NewState token.
	// Payload: [Number].
	StateIDMarker
	// XSize is a u32 width following a NewState token. Payload: [Number].
	XSize
	// YSize is a u32 height following a NewState token. Payload: [Number].
	YSize
	// Offsets is the x/y offset pair of the legacy root entry.
	// Payload: [OffsetPair].
	Offsets
)

// String returns the kind name used in reports.
func (k Kind) String() string {
	switch k {
	case Version:
		return "Version"
	case RootID:
		return "RootId"
	case RawData:
		return "RawData"
	case AsciiString:
		return "AsciiString"
	case UnicodeString:
		return "UnicodeString"
	case ImagePath:
		return "ImagePath"
	case FontName:
		return "FontName"
	case T0Token:
		return "T0Token"
	case NewStateToken:
		return "NewStateToken"
	case EventList:
		return "EventList"
	case Image:
		return "Image"
	case ImageUse:
		return "ImageUse"
	case U32List:
		return "U32List"
	case ImageList:
		return "ImageList"
	case ImagePathList:
		return "ImagePathList"
	case StateIDMarker:
		return "StateIdMarker"
	case XSize:
		return "XSize"
	case YSize:
		return "YSize"
	case Offsets:
		return "Offsets"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsList reports whether blocks of this kind own child blocks.
func (k Kind) IsList() bool {
	switch k {
	case U32List, ImageList, ImagePathList:
		return true
	default:
		return false
	}
}

// ListKind returns the list kind that collects blocks of kind k:
// ImageList for Image, ImagePathList for ImagePath, U32List otherwise.
func ListKind(k Kind) Kind {
	switch k {
	case Image:
		return ImageList
	case ImagePath:
		return ImagePathList
	default:
		return U32List
	}
}
