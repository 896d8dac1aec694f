// Package model defines the core data types shared across blastr.
package model

import (
	"fmt"
	"path"
)

// Position is a location within a file. Line and character are both
// 0-indexed, matching the lsproxy API.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Compare orders positions by line first, then character. It returns -1,
// 0, or +1, following the convention of the cmp package.
func (p Position) Compare(o Position) int {
	if p.Line != o.Line {
		if p.Line < o.Line {
			return -1
		}
		return 1
	}
	if p.Character != o.Character {
		if p.Character < o.Character {
			return -1
		}
		return 1
	}
	return 0
}

// Before reports whether p is strictly before o.
func (p Position) Before(o Position) bool { return p.Compare(o) < 0 }

// After reports whether p is strictly after o.
func (p Position) After(o Position) bool { return p.Compare(o) > 0 }

// FilePosition is a position qualified by a workspace-relative file path.
type FilePosition struct {
	Path string   `json:"path"`
	Pos  Position `json:"position"`
}

// Compare orders file positions by path first, then position. Comparing
// positions in different files is well-defined (lexicographic on path)
// but carries no source-level meaning; callers that care should check
// Path equality themselves.
func (fp FilePosition) Compare(o FilePosition) int {
	if fp.Path != o.Path {
		if fp.Path < o.Path {
			return -1
		}
		return 1
	}
	return fp.Pos.Compare(o.Pos)
}

// After reports whether fp is strictly after o.
func (fp FilePosition) After(o FilePosition) bool { return fp.Compare(o) > 0 }

// Key returns the comparable identity key for this position.
func (fp FilePosition) Key() PositionKey {
	return PositionKey{Path: fp.Path, Line: fp.Pos.Line, Character: fp.Pos.Character}
}

// PositionKey is the flat, comparable form of a FilePosition, used as a
// map and set key wherever identity is defined by definition position.
type PositionKey struct {
	Path      string
	Line      uint32
	Character uint32
}

// FileRange is a span within a single file.
type FileRange struct {
	Path  string   `json:"path"`
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether fp falls within the range. Both bounds are
// inclusive: a position equal to Start or End is inside.
func (r FileRange) Contains(fp FilePosition) bool {
	return r.Path == fp.Path &&
		!fp.Pos.Before(r.Start) &&
		!fp.Pos.After(r.End)
}

// Compare orders ranges by path, then start position.
func (r FileRange) Compare(o FileRange) int {
	if r.Path != o.Path {
		if r.Path < o.Path {
			return -1
		}
		return 1
	}
	return r.Start.Compare(o.Start)
}

// CodeContext is the verbatim source text of a range. It is carried for
// rendering only; graph construction does not depend on it.
type CodeContext struct {
	Range      FileRange `json:"range"`
	SourceCode string    `json:"source_code"`
}

// Symbol is a named, kinded code entity as reported by the symbol service.
type Symbol struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	StartPosition FilePosition `json:"start_position"`
}

// HierarchyItem is a node in the blast-radius graph: a symbol definition
// plus the source context of its full body.
//
// Identity is the definition position alone: two items with the same
// DefinedAt but different names collapse into one node. Always key maps
// and sets on Key(), never on the whole struct.
type HierarchyItem struct {
	Name      string       `json:"name"`
	Kind      string       `json:"kind"`
	DefinedAt FilePosition `json:"defined_at"`
	Context   CodeContext  `json:"context"`
}

// Key returns the identity key of the node.
func (h *HierarchyItem) Key() PositionKey {
	return h.DefinedAt.Key()
}

// String renders a short label like "main.py:12#handler".
func (h *HierarchyItem) String() string {
	return fmt.Sprintf("%s:%d#%s", path.Base(h.DefinedAt.Path), h.DefinedAt.Pos.Line, h.Name)
}

// Edge records that a reference to From occurs inside the body of To;
// that is, To calls or otherwise uses From.
type Edge struct {
	From *HierarchyItem `json:"from"`
	To   *HierarchyItem `json:"to"`
}

// Key returns the comparable identity of the edge.
func (e Edge) Key() EdgeKey {
	return EdgeKey{From: e.From.Key(), To: e.To.Key()}
}

// EdgeKey identifies an edge by the definition positions of its endpoints.
type EdgeKey struct {
	From PositionKey
	To   PositionKey
}
