package diff

import (
	"testing"
)

const sampleDiff = `diff --git a/hello.go b/hello.go
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/hello.go
@@ -0,0 +1,11 @@
+package main
+
+import "fmt"
+
+func main() {
+	fmt.Println("hello")
+}
+
+func add(a, b int) int {
+	return a + b
+}
diff --git a/readme.md b/readme.md
index abc1234..def5678 100644
--- a/readme.md
+++ b/readme.md
@@ -1,3 +1,4 @@
 # Project

-Old description
+New description
+Added line
`

// One hunk in foo.py: a line removed at source line 5 and a line added
// that lands at target line 10.
const mixedHunkDiff = `diff --git a/foo.py b/foo.py
index abc1234..def5678 100644
--- a/foo.py
+++ b/foo.py
@@ -3,8 +3,8 @@ def setup():
 line three
 line four
-removed at source line five
 line six
 line seven
 line eight
 line nine
 line ten
+added lands at target line ten
`

func TestParse(t *testing.T) {
	ds, err := Parse(sampleDiff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(ds.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(ds.Files))
	}

	f0 := ds.Files[0]
	if !f0.IsNew {
		t.Error("expected hello.go to be new")
	}
	if f0.Name() != "hello.go" {
		t.Errorf("expected name 'hello.go', got %q", f0.Name())
	}
	if f0.AddedLines != 11 {
		t.Errorf("expected 11 added lines, got %d", f0.AddedLines)
	}

	f1 := ds.Files[1]
	if f1.Name() != "readme.md" {
		t.Errorf("expected name 'readme.md', got %q", f1.Name())
	}
	if f1.AddedLines != 2 || f1.DeletedLines != 1 {
		t.Errorf("expected +2/-1, got +%d/-%d", f1.AddedLines, f1.DeletedLines)
	}

	files, added, deleted := ds.Stats()
	if files != 2 || added != 13 || deleted != 1 {
		t.Errorf("stats: got files=%d added=%d deleted=%d", files, added, deleted)
	}
}

func TestParseEmpty(t *testing.T) {
	ds, err := Parse("")
	if err != nil {
		t.Fatalf("Parse empty failed: %v", err)
	}
	if len(ds.Files) != 0 {
		t.Errorf("expected 0 files, got %d", len(ds.Files))
	}
}

func TestParseMalformed(t *testing.T) {
	// gitdiff reads unrecognizable text as preamble; Parse must not pass
	// that through as an empty change set.
	if _, err := Parse("not a diff @@ nope"); err == nil {
		t.Error("expected error for malformed diff")
	}
}

func TestAffectedLinesMixedHunk(t *testing.T) {
	ds, err := Parse(mixedHunkDiff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	affected := ds.AffectedLines()
	lines, ok := affected["foo.py"]
	if !ok {
		t.Fatalf("expected foo.py in affected lines, got %v", affected)
	}

	// Removed line numbers in the source space, added line numbers in
	// the target space, both under the same file key.
	if len(lines) != 2 || !lines[5] || !lines[10] {
		t.Errorf("expected {5, 10}, got %v", lines)
	}
}

func TestAffectedLinesNewFile(t *testing.T) {
	ds, err := Parse(sampleDiff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	affected := ds.AffectedLines()
	if len(affected["hello.go"]) != 11 {
		t.Errorf("expected 11 affected lines in hello.go, got %v", affected["hello.go"])
	}
	for n := 1; n <= 11; n++ {
		if !affected["hello.go"][n] {
			t.Errorf("expected line %d affected in hello.go", n)
		}
	}

	// readme.md: added at target lines 3 and 4, removed at source line 3.
	want := LineSet{3: true, 4: true}
	got := affected["readme.md"]
	if len(got) != len(want) {
		t.Errorf("readme.md: expected %v, got %v", want, got)
	}
}
