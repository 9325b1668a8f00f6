package fix

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"glean/internal/diag"
	"glean/internal/source"
)

// plan holds the edits accepted so far, per file, in the coordinates of the
// loaded content. Accepted edits never overlap, so every check runs against
// the original bytes and the files are spliced once at commit.
type plan struct {
	fs    *source.FileSet
	edits map[source.FileID][]diag.FixEdit
}

func newPlan(fs *source.FileSet) *plan {
	return &plan{fs: fs, edits: make(map[source.FileID][]diag.FixEdit)}
}

// accept adds all edits or none. It returns how many were added, or why
// the set was refused.
func (p *plan) accept(edits []diag.FixEdit) (int, string) {
	byFile := make(map[source.FileID][]diag.FixEdit)
	for _, e := range edits {
		byFile[e.Span.File] = append(byFile[e.Span.File], e)
	}
	for _, id := range sortedFiles(byFile) {
		if reason := p.check(id, byFile[id]); reason != "" {
			return 0, reason
		}
	}
	for id, es := range byFile {
		p.edits[id] = append(p.edits[id], es...)
	}
	return len(edits), ""
}

func (p *plan) check(id source.FileID, edits []diag.FixEdit) string {
	file := p.fs.Get(id)
	switch {
	case file == nil:
		return fmt.Sprintf("unknown file %d", id)
	case file.Flags&source.FileVirtual != 0:
		return "target file is virtual"
	}
	for i, e := range edits {
		clash := func(o diag.FixEdit) bool { return overlaps(e.Span, o.Span) }
		if slices.ContainsFunc(p.edits[id], clash) || slices.ContainsFunc(edits[i+1:], clash) {
			return "overlaps previously applied edits in " + file.FormatPath("auto", p.fs.BaseDir())
		}
	}
	for _, e := range edits {
		if !e.Span.Valid() || int(e.Span.End) > len(file.Content) {
			return "edit span out of range"
		}
		if e.OldText != "" && string(file.Content[e.Span.Start:e.Span.End]) != e.OldText {
			return "existing text does not match expected content"
		}
	}
	return ""
}

// overlaps treats spans as [Start, End). Two insertions never overlap; an
// insertion overlaps a range that strictly contains its position or starts
// at it.
func overlaps(a, b source.Span) bool {
	switch {
	case a.Empty() && b.Empty():
		return false
	case a.Empty():
		return b.Start <= a.Start && a.Start < b.End
	case b.Empty():
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// splice rewrites content with non-overlapping edits. Insertions at the
// same offset keep their acceptance order.
func splice(content []byte, edits []diag.FixEdit) []byte {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b diag.FixEdit) int {
		return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
	})
	var out bytes.Buffer
	out.Grow(len(content))
	var at uint32
	for _, e := range sorted {
		out.Write(content[at:e.Span.Start])
		out.WriteString(e.NewText)
		at = e.Span.End
	}
	out.Write(content[at:])
	return out.Bytes()
}

// commit renders every touched file and, unless dryRun, writes it back in
// its original encoding.
func (p *plan) commit(dryRun bool) ([]FileChange, error) {
	changes := make([]FileChange, 0, len(p.edits))
	for _, id := range sortedFiles(p.edits) {
		file := p.fs.Get(id)
		content := splice(file.Content, p.edits[id])
		if !dryRun {
			if err := writeAtomic(file.Path, restoreEncoding(file, content)); err != nil {
				return changes, err
			}
		}
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", p.fs.BaseDir()),
			EditCount: len(p.edits[id]),
			Content:   content,
		})
	}
	slices.SortStableFunc(changes, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return changes, nil
}
