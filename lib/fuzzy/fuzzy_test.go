// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fuzzy

import "testing"

func TestMatchSubstring(t *testing.T) {
	result := Match("ui/skin/button_normal.png", []rune("button"), nil)
	if result.Score <= 0 {
		t.Fatal("expected positive score for substring match")
	}
	if len(result.Positions) != len("button") {
		t.Fatalf("positions = %v, want one per pattern rune", result.Positions)
	}
}

func TestMatchNonContiguous(t *testing.T) {
	// "wlk" picks w from warlords, l from legacy, k from kingdoms.
	if result := Match("warlords legacy kingdoms", []rune("wlk"), nil); result.Score <= 0 {
		t.Fatal("expected positive score for non-contiguous fuzzy match")
	}
}

func TestMatchNoMatch(t *testing.T) {
	result := Match("warlords", []rune("xyz"), nil)
	if result.Score != 0 || len(result.Positions) != 0 {
		t.Errorf("expected no match, got %+v", result)
	}
}

func TestMatchCaseInsensitive(t *testing.T) {
	if result := Match("WARLORDS", []rune("lords"), nil); result.Score <= 0 {
		t.Fatal("expected case-insensitive match")
	}
	if result := Match("warlords", []rune("LORDS"), nil); result.Score <= 0 {
		t.Fatal("expected match with uppercase pattern")
	}
}

func TestMatchEmptyPattern(t *testing.T) {
	if result := Match("anything", nil, nil); result.Score != 0 {
		t.Errorf("expected zero score for empty pattern, got %d", result.Score)
	}
}

func TestMatchWithSlab(t *testing.T) {
	slab := NewSlab()
	withSlab := Match("events_end", []rune("evend"), slab)
	without := Match("events_end", []rune("evend"), nil)
	if withSlab.Score != without.Score {
		t.Errorf("slab changed the score: %d vs %d", withSlab.Score, without.Score)
	}
}

func TestRank(t *testing.T) {
	candidates := []string{"beta", "alpha", "alphabet", "gamma"}

	ranked := Rank(candidates, "alpha")
	if len(ranked) != 2 {
		t.Fatalf("Rank returned %d results, want 2: %+v", len(ranked), ranked)
	}
	for _, entry := range ranked {
		if candidates[entry.Index] != "alpha" && candidates[entry.Index] != "alphabet" {
			t.Errorf("unexpected match %q", candidates[entry.Index])
		}
	}
	if ranked[0].Score < ranked[1].Score {
		t.Error("results not sorted by descending score")
	}

	all := Rank(candidates, "")
	if len(all) != len(candidates) {
		t.Fatalf("empty query returned %d results, want %d", len(all), len(candidates))
	}
	for index, entry := range all {
		if entry.Index != index {
			t.Errorf("empty query reordered candidates: %+v", all)
		}
	}
}
