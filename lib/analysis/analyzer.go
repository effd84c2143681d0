// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"encoding/binary"
	"log/slog"

	"github.com/bureau-foundation/uidecode/lib/block"
	"github.com/bureau-foundation/uidecode/lib/bytecursor"
)

// maxDimension bounds plausible pixel sizes. Values at or above it are
// taken as evidence that the bytes are not a size field.
const maxDimension = 0x10000

// Options configures an Analyzer.
type Options struct {
	// Logger receives overlap warnings and pass statistics. If nil,
	// a no-op logger is used.
	Logger *slog.Logger
}

// Analyzer discovers blocks in one buffer. It is not safe for
// concurrent use; analyze separate files with separate analyzers.
type Analyzer struct {
	data    []byte
	arena   block.Arena
	version int
	logger  *slog.Logger
	ran     bool
}

// New returns an analyzer over data. The buffer must not be modified
// while the analyzer is in use.
func New(data []byte, options Options) *Analyzer {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{data: data, version: -1, logger: logger}
}

// Size returns the buffer length.
func (a *Analyzer) Size() int { return len(a.data) }

// Version returns the header version and whether a header was found.
func (a *Analyzer) Version() (int, bool) {
	return a.version, a.version >= 0
}

// Run executes the pass pipeline. Calling Run more than once has no
// further effect.
func (a *Analyzer) Run() {
	if a.ran {
		return
	}
	a.ran = true

	a.probeVersion()
	a.probeRootID()
	a.scanStrings()
	a.mergeImages()
	a.mergeEventLists()
	a.mergeCountedLists(block.Image)
	a.mergeCountedLists(block.ImagePath)
	a.mergeNewStates()
	a.scanImageUses()
	a.probeRootContext()
	a.arena.Sort()

	a.logger.Debug("analysis complete",
		"size", len(a.data),
		"blocks", a.arena.Len(),
		"fully_decoded", a.FullyDecoded(),
	)
}

// Blocks returns the top-level blocks sorted by (start, end).
func (a *Analyzer) Blocks() []block.Block {
	a.arena.Sort()
	return a.arena.Blocks()
}

// FullyDecoded reports whether the top-level blocks tile [0, size)
// exactly: sorted, contiguous, starting at 0 and ending at size.
// Callers use it to tell a clean parse from one with raw gaps.
func (a *Analyzer) FullyDecoded() bool {
	offset := 0
	for _, b := range a.Blocks() {
		if b.Start != offset {
			return false
		}
		offset = b.End
	}
	return offset == len(a.data)
}

func (a *Analyzer) probeVersion() {
	version, err := bytecursor.ParseVersionHeader(a.data)
	if err != nil {
		a.logger.Debug("no version header", "error", err)
		return
	}
	a.version = version
	a.arena.Add(block.New(block.Version, 0, bytecursor.HeaderSize, block.Number{Value: uint32(version)}))
}

// rootMarker is the length-prefixed "root" title that legacy layouts
// place directly after the root entry's u32 id.
const (
	rootMarker       = "\x04\x00root"
	rootMarkerOffset = 14
)

func (a *Analyzer) probeRootID() {
	end := rootMarkerOffset + len(rootMarker)
	if len(a.data) < end || string(a.data[rootMarkerOffset:end]) != rootMarker {
		return
	}
	id := binary.LittleEndian.Uint32(a.data[bytecursor.HeaderSize:rootMarkerOffset])
	a.arena.Add(block.New(block.RootID, bytecursor.HeaderSize, rootMarkerOffset, block.Number{Value: id}))
}

// u32At reads a little-endian u32 at offset. The caller has already
// checked that offset+4 is within the buffer.
func (a *Analyzer) u32At(offset int) uint32 {
	return binary.LittleEndian.Uint32(a.data[offset:])
}

func (a *Analyzer) free(start, end int) bool {
	return a.arena.Free(block.Span{Start: start, End: end}, len(a.data))
}
