// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"github.com/bureau-foundation/uidecode/lib/block"
)

// Byte counts of the fields surrounding an image path inside an image
// record: u32 id before; u32 x size, u32 y size, u32 unknown after.
const (
	imageIDSize      = 4
	imageTrailerSize = 12
)

// mergeImages widens each ImagePath that has room for the surrounding
// image record fields and plausible dimensions into an Image block.
func (a *Analyzer) mergeImages() {
	a.arena.Sort()
	merged := 0
	for index := range a.arena.Len() {
		path, ok := a.arena.Get(index)
		if !ok || path.Kind != block.ImagePath {
			continue
		}
		start := path.Start - imageIDSize
		end := path.End + imageTrailerSize
		if !a.free(start, path.Start) || !a.free(path.End, end) {
			continue
		}
		xSize := a.u32At(path.End)
		ySize := a.u32At(path.End + 4)
		if xSize >= maxDimension || ySize >= maxDimension {
			continue
		}
		a.arena.Set(index, block.New(block.Image, start, end, block.ImageInfo{
			ID:      a.u32At(start),
			Path:    path.Text(),
			XSize:   xSize,
			YSize:   ySize,
			Unknown: a.u32At(path.End + 8),
		}))
		merged++
	}
	a.logger.Debug("image merge", "images", merged)
}

// mergeEventLists absorbs the contiguous run of generic strings that
// directly precedes each events_end anchor.
func (a *Analyzer) mergeEventLists() {
	a.arena.Sort()
	for index := range a.arena.Len() {
		anchor, ok := a.arena.Get(index)
		if !ok || anchor.Kind != block.EventList {
			continue
		}
		events, _ := anchor.Payload.(block.Events)

		first := index
		start := anchor.Start
		var absorbed []block.Block
		for previous := index - 1; previous >= 0; previous-- {
			candidate, ok := a.arena.Get(previous)
			if !ok || candidate.Kind != block.AsciiString || candidate.End != start {
				break
			}
			absorbed = append(absorbed, candidate)
			start = candidate.Start
			first = previous
		}
		if len(absorbed) == 0 {
			continue
		}

		// absorbed was collected walking backward.
		children := make([]block.Block, 0, len(events.Children)+len(absorbed))
		names := make([]string, 0, len(events.Names)+len(absorbed))
		for position := len(absorbed) - 1; position >= 0; position-- {
			children = append(children, absorbed[position])
			names = append(names, absorbed[position].Text())
		}
		children = append(children, events.Children...)
		names = append(names, events.Names...)

		a.arena.Replace(first, index+1, block.New(block.EventList, start, anchor.End, block.Events{
			Names:    names,
			Children: children,
			Anchor:   events.Anchor,
		}))
	}
	a.arena.Compact()
}

// mergeCountedLists collapses runs of contiguous blocks of the given
// kind into a counted list when the four bytes directly before the run
// hold the run's length. Every part of the list invariant must hold or
// the blocks stay independent:
//
//   - the header bytes are not covered by another block
//   - the header value equals the number of absorbed children
//   - the header ends exactly where the first child starts
//   - each child starts exactly where the previous one ends
//   - the list ends exactly where the last child ends
func (a *Analyzer) mergeCountedLists(kind block.Kind) {
	a.arena.Sort()
	listKind := block.ListKind(kind)
	total := a.arena.Len()
	merged := 0
	for index := 0; index < total; index++ {
		first, ok := a.arena.Get(index)
		if !ok || first.Kind != kind {
			continue
		}
		headerStart := first.Start - 4
		if !a.free(headerStart, first.Start) {
			continue
		}
		declared := a.u32At(headerStart)
		if declared == 0 || uint64(declared) > uint64(total-index) {
			continue
		}
		count := int(declared)
		children, ok := a.contiguousRun(index, count, kind)
		if !ok {
			continue
		}

		last := children[len(children)-1]
		a.arena.Replace(index, index+count, block.New(listKind, headerStart, last.End, block.List{
			Declared: declared,
			Children: children,
		}))
		merged++
		index += count - 1
	}
	a.arena.Compact()
	a.logger.Debug("counted list merge", "kind", kind.String(), "lists", merged)
}

// contiguousRun returns the count live blocks starting at index when
// they all have the given kind and tile without gaps.
func (a *Analyzer) contiguousRun(index, count int, kind block.Kind) ([]block.Block, bool) {
	children := make([]block.Block, 0, count)
	for position := index; position < index+count; position++ {
		child, ok := a.arena.Get(position)
		if !ok || child.Kind != kind {
			return nil, false
		}
		if len(children) > 0 && children[len(children)-1].End != child.Start {
			return nil, false
		}
		children = append(children, child)
	}
	return children, true
}

// Byte counts around a NewState token inside a state record: u32 state
// id before; u32 x size and u32 y size after.
const (
	stateIDSize      = 4
	stateTrailerSize = 8
)

// mergeNewStates adds the state id and size markers around each
// NewState token whose neighbourhood is free and holds plausible sizes.
func (a *Analyzer) mergeNewStates() {
	a.arena.Sort()
	for index := range a.arena.Len() {
		token, ok := a.arena.Get(index)
		if !ok || token.Kind != block.NewStateToken {
			continue
		}
		idStart := token.Start - stateIDSize
		if !a.free(idStart, token.Start) || !a.free(token.End, token.End+stateTrailerSize) {
			continue
		}
		xSize := a.u32At(token.End)
		ySize := a.u32At(token.End + 4)
		if xSize >= maxDimension || ySize >= maxDimension {
			continue
		}
		a.arena.Add(block.New(block.StateIDMarker, idStart, token.Start, block.Number{Value: a.u32At(idStart)}))
		a.arena.Add(block.New(block.XSize, token.End, token.End+4, block.Number{Value: xSize}))
		a.arena.Add(block.New(block.YSize, token.End+4, token.End+8, block.Number{Value: ySize}))
	}
}
