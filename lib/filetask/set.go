// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filetask

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/uidecode/lib/fuzzy"
)

// Filter selects tasks by game and extension.
type Filter struct {
	// Games are game directory names. Empty accepts every game.
	Games []string
	// Fuzzy matches Games as fzf patterns instead of exact names.
	Fuzzy bool
	// Extensions without the dot. Empty accepts every file.
	Extensions []string
}

// matcher evaluates a Filter with one reusable slab.
type matcher struct {
	filter Filter
	slab   *util.Slab
}

func (m *matcher) game(name string) bool {
	if len(m.filter.Games) == 0 {
		return true
	}
	if !m.filter.Fuzzy {
		return slices.Contains(m.filter.Games, name)
	}
	for _, pattern := range m.filter.Games {
		if fuzzy.Match(name, []rune(pattern), m.slab).Score > 0 {
			return true
		}
	}
	return false
}

// Accepts reports whether task passes the filter.
func (f Filter) Accepts(task *Task) bool {
	m := matcher{filter: f, slab: fuzzy.NewSlab()}
	return m.game(task.Game()) && task.HasExtension(f.Extensions)
}

// Set is the ordered list of tasks under one data root.
type Set struct {
	Root  string
	Tasks []*Task
}

// Discover walks root and collects every regular file that passes
// filter, in lexical path order. Directories and symlinks are skipped.
func Discover(root string, filter Filter) (*Set, error) {
	m := matcher{filter: filter, slab: fuzzy.NewSlab()}
	set := &Set{Root: root}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		task := &Task{Path: path, Root: root}
		if m.game(task.Game()) && task.HasExtension(filter.Extensions) {
			set.Tasks = append(set.Tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return set, nil
}

// Len returns the number of tasks.
func (s *Set) Len() int { return len(s.Tasks) }

// Games returns the distinct game names in the set, sorted.
func (s *Set) Games() []string {
	var games []string
	for _, task := range s.Tasks {
		games = append(games, task.Game())
	}
	slices.Sort(games)
	return slices.Compact(games)
}
