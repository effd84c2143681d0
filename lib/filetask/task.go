// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filetask

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bureau-foundation/uidecode/lib/bytecursor"
)

// Kind is the file family implied by the extension.
type Kind int

const (
	// KindLayout is a layout file; any extension other than .fc and
	// .cml.
	KindLayout Kind = iota
	// KindFontCatalog is a .fc font catalog.
	KindFontCatalog
	// KindKeyValue is a .cml key/value list.
	KindKeyValue
)

func (k Kind) String() string {
	switch k {
	case KindLayout:
		return "ui"
	case KindFontCatalog:
		return "fc"
	case KindKeyValue:
		return "cml"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindOf classifies path by extension. The comparison is exact: ".FC"
// is a layout.
func KindOf(path string) Kind {
	switch filepath.Ext(path) {
	case ".fc":
		return KindFontCatalog
	case ".cml":
		return KindKeyValue
	default:
		return KindLayout
	}
}

// Task is one file of the data tree.
type Task struct {
	// Path is the file's full path.
	Path string
	// Root is the data root the task was discovered under. Empty for
	// tasks made with [New].
	Root string

	once    sync.Once
	version int
	err     error
}

// New returns a task for a single file outside any data root.
func New(path string) *Task {
	return &Task{Path: path}
}

// Kind returns the file family.
func (t *Task) Kind() Kind { return KindOf(t.Path) }

// Game returns the name of the directory containing the file.
func (t *Task) Game() string { return filepath.Base(filepath.Dir(t.Path)) }

// Name returns the file name.
func (t *Task) Name() string { return filepath.Base(t.Path) }

// Relative returns the path below Root, or the file name when Root is
// unset.
func (t *Task) Relative() string {
	if t.Root == "" {
		return t.Name()
	}
	relative, err := filepath.Rel(t.Root, t.Path)
	if err != nil {
		return t.Name()
	}
	return relative
}

// Version reads and caches the header version. Only the first ten
// bytes are read.
func (t *Task) Version() (int, error) {
	t.once.Do(func() {
		t.version, t.err = readVersion(t.Path)
	})
	return t.version, t.err
}

func readVersion(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	header := make([]byte, bytecursor.HeaderSize)
	read, err := io.ReadFull(file, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, fmt.Errorf("reading header of %s: %w", path, err)
	}
	version, err := bytecursor.ParseVersionHeader(header[:read])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return version, nil
}

// FullVersion returns the kind-qualified version label: "fc044",
// "cml002", or "044" for layouts.
func (t *Task) FullVersion() (string, error) {
	version, err := t.Version()
	if err != nil {
		return "", err
	}
	return FullVersion(t.Kind(), version), nil
}

// FullVersion formats the version label for kind.
func FullVersion(kind Kind, version int) string {
	switch kind {
	case KindFontCatalog, KindKeyValue:
		return fmt.Sprintf("%s%03d", kind, version)
	default:
		return fmt.Sprintf("%03d", version)
	}
}

// OutputPath mirrors the task's relative path under outputRoot and
// appends suffix (for example ".xml").
func (t *Task) OutputPath(outputRoot, suffix string) string {
	return filepath.Join(outputRoot, t.Relative()) + suffix
}

// HasExtension reports whether the file's extension, without the dot,
// is one of extensions. An empty list accepts every file.
func (t *Task) HasExtension(extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	extension := strings.TrimPrefix(filepath.Ext(t.Path), ".")
	for _, candidate := range extensions {
		if candidate == extension {
			return true
		}
	}
	return false
}
