// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package decoder

import (
	"fmt"
	"slices"

	"github.com/bureau-foundation/uidecode/lib/bytecursor"
)

// Dialect is one complete grammar.
type Dialect int

const (
	// DialectNone means no grammar applies.
	DialectNone Dialect = iota
	// DialectCML is the flat key/value list of version 2 files.
	DialectCML
	// DialectFontCatalog is the flat record list of .fc files.
	DialectFontCatalog
	// DialectUIGen1 is the layout entry grammar of versions 25 to 54.
	DialectUIGen1
	// DialectUIGen2 is the layout entry grammar of versions 55 to 999.
	DialectUIGen2
)

// String returns the short dialect name used in output and logs.
func (d Dialect) String() string {
	switch d {
	case DialectNone:
		return "none"
	case DialectCML:
		return "cml"
	case DialectFontCatalog:
		return "fc"
	case DialectUIGen1:
		return "ui1"
	case DialectUIGen2:
		return "ui2"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// Version boundaries of the layout grammar generations.
const (
	cmlVersion     = 2
	firstUIVersion = 25
	lastGen1       = 54
	lastUIVersion  = 999
)

// fontCatalogVersions are the versions shared by .fc files and layout
// files. The two are told apart by the root entry marker.
var fontCatalogVersions = []int{44, 50, 51, 52, 53}

// rootTitleOffset is where the "root" title bytes of a legacy root entry
// start: u32 id at 10, u16 length at 14, text at 16.
const rootTitleOffset = 16

// HasRootEntry reports whether data carries the "root" title of a
// legacy layout root entry at offset 16.
func HasRootEntry(data []byte) bool {
	return len(data) >= rootTitleOffset+4 && string(data[rootTitleOffset:rootTitleOffset+4]) == "root"
}

// SelectDialect picks the grammar for version. data is consulted only
// to tell font catalogs from layouts that share their version numbers.
func SelectDialect(version int, data []byte) (Dialect, error) {
	switch {
	case version == cmlVersion:
		return DialectCML, nil
	case slices.Contains(fontCatalogVersions, version) && !HasRootEntry(data):
		return DialectFontCatalog, nil
	case version >= firstUIVersion && version <= lastGen1:
		return DialectUIGen1, nil
	case version > lastGen1 && version <= lastUIVersion:
		return DialectUIGen2, nil
	default:
		return DialectNone, fmt.Errorf("%w: %03d", ErrUnsupportedVersion, version)
	}
}

// Context is the immutable decode state threaded through every field:
// the header version and flags derived from it. It is passed by value.
type Context struct {
	Version int
	Dialect Dialect
	// TypedChildren is set from version 100, where each child carries a
	// u16 kind selecting a layout entry or a template.
	TypedChildren bool
}

// NewContext derives a context for version and dialect.
func NewContext(version int, dialect Dialect) Context {
	return Context{
		Version:       version,
		Dialect:       dialect,
		TypedChildren: version >= typedChildrenVersion,
	}
}

// Generation returns 1 or 2 for layout dialects and 0 otherwise.
func (c Context) Generation() int {
	switch c.Dialect {
	case DialectUIGen1:
		return 1
	case DialectUIGen2:
		return 2
	default:
		return 0
	}
}

// ProbeResult describes a buffer's header without decoding it.
type ProbeResult struct {
	Version   int
	Dialect   Dialect
	HasRoot   bool
	Supported bool
}

// Probe reads the version header and selects a dialect. A malformed
// header is an error. An unsupported version is not: the result has
// Supported false so callers can route the file to the analyzer.
func Probe(data []byte) (ProbeResult, error) {
	version, err := bytecursor.ParseVersionHeader(data)
	if err != nil {
		return ProbeResult{}, err
	}
	result := ProbeResult{Version: version, HasRoot: HasRootEntry(data)}
	dialect, err := SelectDialect(version, data)
	if err == nil {
		result.Dialect = dialect
		result.Supported = true
	}
	return result, nil
}
