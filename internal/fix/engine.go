package fix

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"glean/internal/diag"
	"glean/internal/source"
)

// ErrNoFixes means nothing was applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode selects which fixes Apply tries.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota // первая применимая в порядке файла
	ApplyModeAll                   // все, что не пересекаются с уже принятыми
	ApplyModeCode                  // все фиксы диагностик с кодом ApplyOptions.Code
)

type ApplyOptions struct {
	Mode   ApplyMode
	Code   diag.Code
	DryRun bool // ничего не пишем на диск
}

// AppliedFix describes a fix whose edits were all accepted.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix is a fix left out, with the reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange is the new content of one touched file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	id    string
	order int
}

// Apply picks fixes out of diagnostics according to opts, applies them to
// the loaded contents and, unless DryRun, writes the touched files.
// A fix is applied whole or not at all.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{}
	if fs == nil {
		return res, errors.New("fix: nil file set")
	}

	cands, skipped := gatherCandidates(diagnostics)
	res.Skipped = skipped
	cands = selectCandidates(cands, opts)
	if len(cands) == 0 {
		return res, ErrNoFixes
	}

	p := newPlan(fs)
	for _, c := range cands {
		if opts.Mode == ApplyModeOnce && len(res.Applied) == 1 {
			break
		}
		n, reason := p.accept(c.fix.Edits)
		if reason != "" {
			res.Skipped = append(res.Skipped, SkippedFix{ID: c.id, Title: c.fix.Title, Reason: reason})
			continue
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:          c.id,
			Title:       c.fix.Title,
			Code:        c.diag.Code,
			Message:     c.diag.Message,
			PrimaryPath: primaryPath(fs, c.diag.Primary.File),
			EditCount:   n,
		})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	changes, err := p.commit(opts.DryRun)
	res.FileChanges = changes
	return res, err
}

// gatherCandidates turns each fix into a candidate with a stable id built
// from the code, file, start and fix index. Fixes without edits and exact
// repeats of an id are skipped.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string][]diag.FixEdit)
	for _, d := range diagnostics {
		for i, f := range d.Fixes {
			id := fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, i)
			switch prev, dup := seen[id]; {
			case len(f.Edits) == 0:
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "fix has no edits"})
			case dup && slices.Equal(prev, f.Edits):
				skips = append(skips, SkippedFix{ID: id, Title: f.Title, Reason: "duplicate fix id"})
			default:
				seen[id] = f.Edits
				cands = append(cands, candidate{diag: d, fix: f, id: id, order: len(cands)})
			}
		}
	}
	// по файлу и позиции; при равенстве порядок появления
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		return cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
		)
	})
	return cands, skips
}

func selectCandidates(cands []candidate, opts ApplyOptions) []candidate {
	switch opts.Mode {
	case ApplyModeOnce, ApplyModeAll:
		return cands
	case ApplyModeCode:
		return slices.DeleteFunc(cands, func(c candidate) bool { return c.diag.Code != opts.Code })
	}
	return nil
}

func primaryPath(fs *source.FileSet, id source.FileID) string {
	if f := fs.Get(id); f != nil {
		return f.FormatPath("auto", fs.BaseDir())
	}
	return ""
}

// sortedFiles returns the keys of m in ascending order.
func sortedFiles[V any](m map[source.FileID]V) []source.FileID {
	return slices.Sorted(maps.Keys(m))
}
