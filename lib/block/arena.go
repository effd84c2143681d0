// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package block

import "slices"

type slot struct {
	block   Block
	removed bool
}

// Arena owns the top-level blocks of one analysis. It is not safe for
// concurrent use.
type Arena struct {
	slots []slot
}

// Add appends a block and returns its index.
func (a *Arena) Add(b Block) int {
	a.slots = append(a.slots, slot{block: b})
	return len(a.slots) - 1
}

// Len returns the number of slots, including tombstones.
func (a *Arena) Len() int { return len(a.slots) }

// Get returns the block at index and whether it is live.
func (a *Arena) Get(index int) (Block, bool) {
	if index < 0 || index >= len(a.slots) || a.slots[index].removed {
		return Block{}, false
	}
	return a.slots[index].block, true
}

// Set overwrites the live block at index in place.
func (a *Arena) Set(index int, b Block) {
	a.slots[index] = slot{block: b}
}

// Replace puts b at index first and tombstones indices (first, last).
// The range is inclusive of first and exclusive of last.
func (a *Arena) Replace(first, last int, b Block) {
	a.slots[first] = slot{block: b}
	for index := first + 1; index < last; index++ {
		a.slots[index].removed = true
	}
}

// Remove tombstones the block at index.
func (a *Arena) Remove(index int) {
	a.slots[index].removed = true
}

// Compact drops tombstones, preserving the order of live blocks.
func (a *Arena) Compact() {
	a.slots = slices.DeleteFunc(a.slots, func(s slot) bool { return s.removed })
}

// Sort compacts and then orders blocks by (Start, End). Blocks with
// identical spans keep their insertion order.
func (a *Arena) Sort() {
	a.Compact()
	slices.SortStableFunc(a.slots, func(x, y slot) int {
		return Compare(x.block.Span, y.block.Span)
	})
}

// Blocks returns a copy of the live blocks in index order.
func (a *Arena) Blocks() []Block {
	blocks := make([]Block, 0, len(a.slots))
	for _, s := range a.slots {
		if !s.removed {
			blocks = append(blocks, s.block)
		}
	}
	return blocks
}

// Covered reports whether any live block overlaps span.
func (a *Arena) Covered(span Span) bool {
	for _, s := range a.slots {
		if !s.removed && s.block.Overlaps(span) {
			return true
		}
	}
	return false
}

// Free reports whether span lies inside [0, size) and no live block
// overlaps it.
func (a *Arena) Free(span Span, size int) bool {
	if span.Start < 0 || span.End > size || span.Start > span.End {
		return false
	}
	return !a.Covered(span)
}
