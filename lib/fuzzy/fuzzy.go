// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuzzy wraps fzf's matching algorithm for game name filters
// and viewer search.
package fuzzy

import (
	"slices"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Result is one fuzzy match. A zero Score means no match.
type Result struct {
	Score int
	// Positions are the rune indices of matched characters in the
	// text, ascending.
	Positions []int
}

// Match scores text against pattern, ignoring case. slab may be nil;
// callers matching many candidates reuse one from [NewSlab]. An empty
// pattern never matches.
func Match(text string, pattern []rune, slab *util.Slab) Result {
	if len(pattern) == 0 {
		return Result{}
	}
	lowered := []rune(strings.ToLower(string(pattern)))
	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, false, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return Result{}
	}
	match := Result{Score: result.Score}
	if positions != nil {
		match.Positions = slices.Clone(*positions)
		slices.Sort(match.Positions)
	}
	return match
}

// NewSlab returns scratch space for repeated matching. A slab is not
// safe for concurrent use.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// Ranked is a candidate index with its match.
type Ranked struct {
	Index int
	Result
}

// Rank matches every candidate against query and returns the matches
// ordered by descending score. Ties keep candidate order. An empty
// query returns every candidate with a zero score.
func Rank(candidates []string, query string) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	if query == "" {
		for index := range candidates {
			ranked = append(ranked, Ranked{Index: index})
		}
		return ranked
	}
	pattern := []rune(query)
	slab := NewSlab()
	for index, candidate := range candidates {
		if result := Match(candidate, pattern, slab); result.Score > 0 {
			ranked = append(ranked, Ranked{Index: index, Result: result})
		}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return b.Score - a.Score
	})
	return ranked
}
