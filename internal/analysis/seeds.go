package analysis

import (
	"slices"

	"github.com/sprite-ai/blastr/internal/diff"
	"github.com/sprite-ai/blastr/internal/model"
)

// SeedsFromDiff converts the per-file affected lines of a diff into
// starting positions for the traversal, keeping only files the symbol
// service has indexed. Diff line numbers are 1-indexed while positions
// are 0-indexed, so each line is shifted down by one; the character is
// pinned to the start of the line.
func SeedsFromDiff(affected diff.AffectedLines, workspaceFiles []string) map[string][]model.FilePosition {
	indexed := make(map[string]bool, len(workspaceFiles))
	for _, f := range workspaceFiles {
		indexed[f] = true
	}

	seeds := make(map[string][]model.FilePosition)
	for file, lines := range affected {
		if !indexed[file] {
			continue
		}
		numbers := make([]int, 0, len(lines))
		for n := range lines {
			numbers = append(numbers, n)
		}
		slices.Sort(numbers)

		positions := make([]model.FilePosition, 0, len(numbers))
		for _, n := range numbers {
			if n < 1 {
				continue
			}
			positions = append(positions, model.FilePosition{
				Path: file,
				Pos:  model.Position{Line: uint32(n - 1)},
			})
		}
		if len(positions) > 0 {
			seeds[file] = positions
		}
	}
	return seeds
}
