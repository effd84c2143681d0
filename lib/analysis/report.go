// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"fmt"
	"strconv"

	"github.com/bureau-foundation/uidecode/lib/block"
	"github.com/bureau-foundation/uidecode/lib/hexdump"
	"github.com/bureau-foundation/uidecode/lib/markup"
)

// Report writes the analysis as an <analysis> element. Blocks are
// walked in (start, end) order: uncovered bytes before a block are
// dumped as RawData, and a block starting before the end of the
// previous one produces an <overlap> warning, after which the walk
// resynchronizes at that block's start. Bytes after the last block are
// dumped as a final RawData element.
//
// Report runs the pipeline first if Run has not been called.
func (a *Analyzer) Report(sink *markup.Builder) error {
	a.Run()
	attrs := markup.Attrs{"size": strconv.Itoa(len(a.data))}
	if version, ok := a.Version(); ok {
		attrs["version"] = fmt.Sprintf("%03d", version)
	}
	if a.FullyDecoded() {
		attrs["fully_decoded"] = "true"
	}
	return sink.Tag("analysis", attrs, func() error {
		offset := 0
		for _, b := range a.Blocks() {
			switch {
			case b.Start > offset:
				a.reportRaw(sink, offset, b.Start)
			case b.Start < offset:
				a.logger.Warn("block overlap",
					"offset", offset,
					"resync", b.Start,
					"block", b.String(),
				)
				sink.Element("overlap", markup.Attrs{
					"at":     strconv.Itoa(offset),
					"resync": strconv.Itoa(b.Start),
				})
			}
			a.reportBlock(sink, b)
			offset = b.End
		}
		if offset < len(a.data) {
			a.reportRaw(sink, offset, len(a.data))
		}
		return sink.Err()
	})
}

func (a *Analyzer) reportRaw(sink *markup.Builder, start, end int) {
	span := block.Span{Start: start, End: end}
	sink.OpenTag("block", markup.Attrs{"kind": block.RawData.String(), "range": span.String()})
	for _, line := range hexdump.Lines(a.data[start:end], start) {
		sink.Text(line)
	}
	sink.CloseTag()
}

// reportBlock renders one block. Every kind is handled explicitly.
func (a *Analyzer) reportBlock(sink *markup.Builder, b block.Block) {
	attrs := markup.Attrs{"kind": b.Kind.String(), "range": b.Span.String()}
	switch b.Kind {
	case block.Version, block.RootID, block.StateIDMarker, block.XSize, block.YSize:
		number, _ := b.Payload.(block.Number)
		attrs["value"] = strconv.FormatUint(uint64(number.Value), 10)
		sink.Element("block", attrs)

	case block.AsciiString, block.UnicodeString, block.ImagePath, block.FontName,
		block.T0Token, block.NewStateToken:
		attrs["text"] = b.Text()
		sink.Element("block", attrs)

	case block.RawData:
		a.reportRaw(sink, b.Start, b.End)

	case block.EventList:
		events, _ := b.Payload.(block.Events)
		sink.OpenTag("block", attrs)
		for _, name := range events.Names {
			sink.Leaf("event", name, "")
		}
		sink.CloseTag()

	case block.Image:
		image, _ := b.Payload.(block.ImageInfo)
		attrs["id"] = strconv.FormatUint(uint64(image.ID), 10)
		attrs["path"] = image.Path
		attrs["xsize"] = strconv.FormatUint(uint64(image.XSize), 10)
		attrs["ysize"] = strconv.FormatUint(uint64(image.YSize), 10)
		attrs["unknown"] = fmt.Sprintf("0x%08x", image.Unknown)
		sink.Element("block", attrs)

	case block.ImageUse:
		use, _ := b.Payload.(block.UseInfo)
		attrs["id"] = strconv.FormatUint(uint64(use.ImageID), 10)
		attrs["x"] = strconv.FormatInt(int64(use.XOffset), 10)
		attrs["y"] = strconv.FormatInt(int64(use.YOffset), 10)
		attrs["xsize"] = strconv.FormatUint(uint64(use.XSize), 10)
		attrs["ysize"] = strconv.FormatUint(uint64(use.YSize), 10)
		attrs["bgra"] = fmt.Sprintf("%02x%02x%02x%02x", use.Color[0], use.Color[1], use.Color[2], use.Color[3])
		sink.Element("block", attrs)

	case block.U32List, block.ImageList, block.ImagePathList:
		list, _ := b.Payload.(block.List)
		attrs["count"] = strconv.FormatUint(uint64(list.Declared), 10)
		sink.OpenTag("block", attrs)
		for _, child := range list.Children {
			a.reportBlock(sink, child)
		}
		sink.CloseTag()

	case block.Offsets:
		pair, _ := b.Payload.(block.OffsetPair)
		attrs["x"] = strconv.FormatInt(int64(pair.X), 10)
		attrs["y"] = strconv.FormatInt(int64(pair.Y), 10)
		sink.Element("block", attrs)

	default:
		attrs["error"] = "unknown kind"
		sink.Element("block", attrs)
	}
}
