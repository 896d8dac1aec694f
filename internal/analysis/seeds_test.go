package analysis

import (
	"testing"

	"github.com/sprite-ai/blastr/internal/diff"
)

func TestSeedsFromDiff(t *testing.T) {
	affected := diff.AffectedLines{
		"a.py":    diff.LineSet{10: true, 5: true},
		"gone.py": diff.LineSet{3: true},
	}

	seeds := SeedsFromDiff(affected, []string{"a.py", "other.py"})

	if len(seeds) != 1 {
		t.Fatalf("expected seeds only for indexed files, got %v", seeds)
	}
	positions := seeds["a.py"]
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	// Sorted, 1-indexed diff lines shifted to 0-indexed positions.
	if positions[0].Pos.Line != 4 || positions[1].Pos.Line != 9 {
		t.Errorf("expected lines 4 and 9, got %d and %d", positions[0].Pos.Line, positions[1].Pos.Line)
	}
	for _, p := range positions {
		if p.Path != "a.py" || p.Pos.Character != 0 {
			t.Errorf("unexpected position %+v", p)
		}
	}
}
