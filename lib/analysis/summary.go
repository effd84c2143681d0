// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"github.com/bureau-foundation/uidecode/lib/block"
	"github.com/bureau-foundation/uidecode/lib/codec"
)

// Summary is the machine-readable form of an analysis, stored in the
// result catalog and written by "uidecode analyze --summary".
type Summary struct {
	Size         int            `cbor:"size"`
	Version      int            `cbor:"version"`
	HasVersion   bool           `cbor:"has_version"`
	FullyDecoded bool           `cbor:"fully_decoded"`
	Counts       map[string]int `cbor:"counts"`
	Blocks       []BlockSummary `cbor:"blocks"`
}

// BlockSummary describes one block. Fields that do not apply to the
// block's kind are omitted.
type BlockSummary struct {
	Kind     string         `cbor:"kind"`
	Start    int            `cbor:"start"`
	End      int            `cbor:"end"`
	Value    *uint32        `cbor:"value,omitempty"`
	Text     string         `cbor:"text,omitempty"`
	Names    []string       `cbor:"names,omitempty"`
	ImageID  *uint32        `cbor:"image_id,omitempty"`
	Children []BlockSummary `cbor:"children,omitempty"`
}

// Summary runs the pipeline if needed and summarizes the top-level
// blocks. Counts tallies top-level blocks by kind name.
func (a *Analyzer) Summary() Summary {
	a.Run()
	version, hasVersion := a.Version()
	summary := Summary{
		Size:         len(a.data),
		Version:      max(version, 0),
		HasVersion:   hasVersion,
		FullyDecoded: a.FullyDecoded(),
		Counts:       make(map[string]int),
	}
	for _, b := range a.Blocks() {
		summary.Counts[b.Kind.String()]++
		summary.Blocks = append(summary.Blocks, summarize(b))
	}
	return summary
}

// EncodeSummary returns the deterministic CBOR encoding of Summary.
func (a *Analyzer) EncodeSummary() ([]byte, error) {
	return codec.Marshal(a.Summary())
}

func summarize(b block.Block) BlockSummary {
	summary := BlockSummary{Kind: b.Kind.String(), Start: b.Start, End: b.End}
	switch b.Kind {
	case block.Version, block.RootID, block.StateIDMarker, block.XSize, block.YSize:
		number, _ := b.Payload.(block.Number)
		summary.Value = &number.Value
	case block.AsciiString, block.UnicodeString, block.ImagePath, block.FontName,
		block.T0Token, block.NewStateToken:
		summary.Text = b.Text()
	case block.RawData, block.Offsets:
	case block.EventList:
		events, _ := b.Payload.(block.Events)
		summary.Names = events.Names
	case block.Image:
		image, _ := b.Payload.(block.ImageInfo)
		summary.ImageID = &image.ID
		summary.Text = image.Path
	case block.ImageUse:
		use, _ := b.Payload.(block.UseInfo)
		summary.ImageID = &use.ImageID
	case block.U32List, block.ImageList, block.ImagePathList:
		list, _ := b.Payload.(block.List)
		summary.Value = &list.Declared
		for _, child := range list.Children {
			summary.Children = append(summary.Children, summarize(child))
		}
	}
	return summary
}
