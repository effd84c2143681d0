// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"github.com/bureau-foundation/uidecode/lib/block"
	"github.com/bureau-foundation/uidecode/lib/bytecursor"
)

// imageUseSize is the fixed size of an image use record: u32 image id,
// i32 x offset, i32 y offset, u32 x size, u32 y size, four color bytes.
const imageUseSize = 24

// knownImageIDs collects ids from Image blocks, including those inside
// image lists.
func (a *Analyzer) knownImageIDs() map[uint32]struct{} {
	ids := make(map[uint32]struct{})
	var collect func(blocks []block.Block)
	collect = func(blocks []block.Block) {
		for _, b := range blocks {
			switch payload := b.Payload.(type) {
			case block.ImageInfo:
				ids[payload.ID] = struct{}{}
			case block.List:
				collect(payload.Children)
			}
		}
	}
	collect(a.arena.Blocks())
	return ids
}

// scanImageUses tags every uncovered 24-byte window that starts with a
// known image id as an image use.
func (a *Analyzer) scanImageUses() {
	ids := a.knownImageIDs()
	if len(ids) == 0 {
		return
	}
	found := 0
	for offset := 0; offset+imageUseSize <= len(a.data); offset++ {
		id := a.u32At(offset)
		if _, known := ids[id]; !known {
			continue
		}
		end := offset + imageUseSize
		if !a.free(offset, end) {
			continue
		}
		cursor := bytecursor.New(a.data[offset:end])
		use := readImageUse(cursor)
		a.arena.Add(block.New(block.ImageUse, offset, end, use))
		found++
		offset = end - 1
	}
	a.logger.Debug("image use scan", "known_ids", len(ids), "uses", found)
}

// readImageUse decodes a window that is exactly imageUseSize bytes, so
// none of the reads can fail.
func readImageUse(cursor *bytecursor.Cursor) block.UseInfo {
	var use block.UseInfo
	use.ImageID, _ = cursor.U32()
	use.XOffset, _ = cursor.I32()
	use.YOffset, _ = cursor.I32()
	use.XSize, _ = cursor.U32()
	use.YSize, _ = cursor.U32()
	color, _ := cursor.Bytes(4)
	copy(use.Color[:], color)
	return use
}

// rootTitleEnd is where the "root" title string of a legacy root entry
// ends: u32 id at [10,14), "\x04\x00root" at [14,20).
const rootTitleEnd = 20

// title2Version is the first version whose entries carry a second
// title string after the first.
const title2Version = 43

// probeRootContext recognizes the fields following the title of a
// legacy root entry: an optional second title, then the i32 x and y
// offsets. It only fires when the third block is the literal "root"
// string ending at offset 20.
func (a *Analyzer) probeRootContext() {
	if a.version < 0 {
		return
	}
	a.arena.Sort()
	third, ok := a.arena.Get(2)
	if !ok || third.End != rootTitleEnd || third.Text() != "root" {
		return
	}

	cursor := bytecursor.New(a.data)
	if err := cursor.Rewind(rootTitleEnd); err != nil {
		return
	}
	if a.version >= title2Version {
		start := cursor.Offset()
		title2, err := cursor.Latin1()
		if err != nil {
			return
		}
		span := block.Span{Start: start, End: cursor.Offset()}
		if !a.arena.Covered(span) {
			a.arena.Add(block.New(block.AsciiString, span.Start, span.End, block.Text{Value: title2}))
		} else if !a.coveredExactly(span) {
			return
		}
	}

	start := cursor.Offset()
	x, err := cursor.I32()
	if err != nil {
		return
	}
	y, err := cursor.I32()
	if err != nil {
		return
	}
	if !a.free(start, cursor.Offset()) {
		return
	}
	a.arena.Add(block.New(block.Offsets, start, cursor.Offset(), block.OffsetPair{X: x, Y: y}))
}

// coveredExactly reports whether some live block spans exactly span.
func (a *Analyzer) coveredExactly(span block.Span) bool {
	for _, b := range a.arena.Blocks() {
		if b.Span == span {
			return true
		}
	}
	return false
}
