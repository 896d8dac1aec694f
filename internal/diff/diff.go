// Package diff handles parsing git diffs into per-file sets of touched lines.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// File represents a single file in a diff with its parsed fragments.
type File struct {
	OldName      string
	NewName      string
	IsNew        bool
	IsDeleted    bool
	IsRenamed    bool
	IsBinary     bool
	Fragments    []*gitdiff.TextFragment
	AddedLines   int
	DeletedLines int
}

// Name returns the file key used for affected-line bookkeeping. The
// pre-image path is preferred; both added and removed lines are recorded
// under it even though they number different line spaces. Renamed files
// therefore report under their old path, a known limitation rather than
// something this package special-cases.
func (f *File) Name() string {
	if f.OldName != "" && !f.IsNew {
		return f.OldName
	}
	return f.NewName
}

// DiffSet holds the parsed diff for all files.
type DiffSet struct {
	Files []*File
	Raw   string // the raw unified diff text
}

// Stats returns aggregate statistics.
func (ds *DiffSet) Stats() (files, added, deleted int) {
	files = len(ds.Files)
	for _, f := range ds.Files {
		added += f.AddedLines
		deleted += f.DeletedLines
	}
	return
}

// LineSet is a set of 1-indexed line numbers.
type LineSet map[int]bool

// Sorted returns the line numbers in ascending order.
func (ls LineSet) Sorted() []int {
	out := make([]int, 0, len(ls))
	for n := range ls {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// AffectedLines maps a file path to the set of line numbers touched by
// the diff: added lines contribute their target-file number, removed
// lines their source-file number, under the same file key.
type AffectedLines map[string]LineSet

// Parse reads a unified diff string and returns a DiffSet. Malformed
// input is an error; nothing is partially returned.
func Parse(raw string) (*DiffSet, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}
	// gitdiff treats unrecognizable input as preamble text and returns no
	// files and no error. Non-empty input that parses to nothing is
	// malformed, not an empty change set.
	if len(parsed) == 0 && strings.TrimSpace(raw) != "" {
		return nil, fmt.Errorf("parsing diff: no file headers found")
	}

	ds := &DiffSet{Raw: raw}
	for _, f := range parsed {
		df := &File{
			OldName:   f.OldName,
			NewName:   f.NewName,
			IsNew:     f.IsNew,
			IsDeleted: f.IsDelete,
			IsRenamed: f.IsRename,
			IsBinary:  f.IsBinary,
		}

		for _, frag := range f.TextFragments {
			df.Fragments = append(df.Fragments, frag)
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					df.AddedLines++
				case gitdiff.OpDelete:
					df.DeletedLines++
				}
			}
		}

		ds.Files = append(ds.Files, df)
	}

	return ds, nil
}

// AffectedLines walks every hunk and collects the touched line numbers
// per file. Binary files carry no fragments and contribute nothing.
func (ds *DiffSet) AffectedLines() AffectedLines {
	affected := make(AffectedLines)

	for _, f := range ds.Files {
		name := f.Name()
		for _, frag := range f.Fragments {
			src := int(frag.OldPosition)
			tgt := int(frag.NewPosition)
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpContext:
					src++
					tgt++
				case gitdiff.OpAdd:
					if affected[name] == nil {
						affected[name] = make(LineSet)
					}
					affected[name][tgt] = true
					tgt++
				case gitdiff.OpDelete:
					if affected[name] == nil {
						affected[name] = make(LineSet)
					}
					affected[name][src] = true
					src++
				}
			}
		}
	}

	return affected
}

// ParseRevisions diffs two revisions of a working tree and returns the
// affected lines along with the raw diff text. Any failure (bad revision,
// unreadable tree, malformed diff) is fatal to the caller.
func ParseRevisions(repoDir, revA, revB string) (AffectedLines, string, error) {
	raw, err := GitDiffRevisions(repoDir, revA, revB)
	if err != nil {
		return nil, "", err
	}
	ds, err := Parse(raw)
	if err != nil {
		return nil, "", fmt.Errorf("diff %s..%s: %w", revA, revB, err)
	}
	return ds.AffectedLines(), raw, nil
}

// GitDiff runs `git diff` with the given arguments and returns the raw output.
func GitDiff(repoDir string, args ...string) (string, error) {
	cmdArgs := append([]string{"diff"}, args...)
	cmd := exec.Command("git", cmdArgs...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return string(out), nil
}

// GitDiffRevisions returns the diff between two named revisions.
func GitDiffRevisions(repoDir, revA, revB string) (string, error) {
	return GitDiff(repoDir, revA, revB)
}

// GitDiffRange returns the diff for a commit range like "main...HEAD".
func GitDiffRange(repoDir string, commitRange string, contextLines int) (string, error) {
	return GitDiff(repoDir, fmt.Sprintf("-U%d", contextLines), commitRange)
}

// Clone clones a repository into dir.
func Clone(url, dir string) error {
	cmd := exec.Command("git", "clone", url, dir)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone %s: %w", url, err)
	}
	return nil
}

// Checkout checks out a revision in an existing working tree.
func Checkout(repoDir, rev string) error {
	cmd := exec.Command("git", "checkout", rev)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git checkout %s: %w", rev, err)
	}
	return nil
}
