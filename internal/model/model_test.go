package model

import (
	"testing"
)

func pos(line, char uint32) Position {
	return Position{Line: line, Character: char}
}

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{pos(1, 0), pos(2, 0), -1},
		{pos(2, 5), pos(2, 5), 0},
		{pos(2, 6), pos(2, 5), 1},
		{pos(3, 0), pos(2, 99), 1},
		{pos(0, 0), pos(0, 1), -1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPositionTotalOrder(t *testing.T) {
	ps := []Position{pos(0, 0), pos(0, 5), pos(1, 0), pos(1, 3), pos(2, 2)}

	// Exactly one of <, ==, > holds for every pair.
	for _, p := range ps {
		for _, q := range ps {
			lt := p.Before(q)
			gt := p.After(q)
			eq := p.Compare(q) == 0
			count := 0
			for _, b := range []bool{lt, gt, eq} {
				if b {
					count++
				}
			}
			if count != 1 {
				t.Errorf("trichotomy violated for %v vs %v: lt=%v gt=%v eq=%v", p, q, lt, gt, eq)
			}
		}
	}

	// Transitivity of <.
	for _, p := range ps {
		for _, q := range ps {
			for _, r := range ps {
				if p.Before(q) && q.Before(r) && !p.Before(r) {
					t.Errorf("transitivity violated: %v < %v < %v but not %v < %v", p, q, r, p, r)
				}
			}
		}
	}
}

func TestFilePositionCompareAcrossPaths(t *testing.T) {
	a := FilePosition{Path: "a.py", Pos: pos(10, 0)}
	b := FilePosition{Path: "b.py", Pos: pos(1, 0)}
	if a.Compare(b) >= 0 {
		t.Errorf("expected %v < %v (lexicographic on path)", a, b)
	}
}

func TestFileRangeContains(t *testing.T) {
	r := FileRange{Path: "a", Start: pos(2, 0), End: pos(5, 10)}

	tests := []struct {
		fp   FilePosition
		want bool
	}{
		{FilePosition{Path: "a", Pos: pos(2, 0)}, true},   // start bound inclusive
		{FilePosition{Path: "a", Pos: pos(5, 10)}, true},  // end bound inclusive
		{FilePosition{Path: "a", Pos: pos(1, 9)}, false},  // before start
		{FilePosition{Path: "a", Pos: pos(5, 11)}, false}, // after end
		{FilePosition{Path: "a", Pos: pos(3, 50)}, true},  // interior line
		{FilePosition{Path: "b", Pos: pos(3, 0)}, false},  // wrong file
	}
	for _, tt := range tests {
		if got := r.Contains(tt.fp); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.fp, got, tt.want)
		}
	}
}

func TestHierarchyItemKeyIgnoresNameAndKind(t *testing.T) {
	at := FilePosition{Path: "src/main.py", Pos: pos(12, 4)}
	a := &HierarchyItem{Name: "handler", Kind: "function", DefinedAt: at}
	b := &HierarchyItem{Name: "renamed_handler", Kind: "method", DefinedAt: at}

	if a.Key() != b.Key() {
		t.Errorf("items with the same definition position must share a key: %v vs %v", a.Key(), b.Key())
	}

	set := map[PositionKey]*HierarchyItem{}
	set[a.Key()] = a
	set[b.Key()] = b
	if len(set) != 1 {
		t.Errorf("expected items to collapse into 1 set entry, got %d", len(set))
	}
}

func TestHierarchyItemString(t *testing.T) {
	h := &HierarchyItem{
		Name:      "handler",
		Kind:      "function",
		DefinedAt: FilePosition{Path: "src/app/main.py", Pos: pos(12, 4)},
	}
	if got, want := h.String(), "main.py:12#handler"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEdgeKey(t *testing.T) {
	a := &HierarchyItem{Name: "a", DefinedAt: FilePosition{Path: "x.py", Pos: pos(1, 0)}}
	b := &HierarchyItem{Name: "b", DefinedAt: FilePosition{Path: "x.py", Pos: pos(9, 0)}}

	ab := Edge{From: a, To: b}
	ba := Edge{From: b, To: a}
	if ab.Key() == ba.Key() {
		t.Error("edges are ordered pairs; (a,b) and (b,a) must have distinct keys")
	}
	if ab.Key() != (Edge{From: a, To: b}).Key() {
		t.Error("identical edges must share a key")
	}
}
