package diagfmt

import (
	"fmt"
	"strings"

	"glean/internal/diag"
	"glean/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the lines touched by edit before and after the
// edit is applied.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}

	startPos, endPos := fs.Resolve(edit.Span)
	blockStart, _, ok := file.LineBounds(startPos.Line)
	if !ok {
		return fixEditPreview{}, fmt.Errorf("line %d out of range", startPos.Line)
	}
	_, blockEnd, ok := file.LineBounds(max(endPos.Line, startPos.Line))
	if !ok {
		return fixEditPreview{}, fmt.Errorf("line %d out of range", endPos.Line)
	}
	if edit.Span.Start < blockStart || edit.Span.End > blockEnd || edit.Span.End < edit.Span.Start {
		return fixEditPreview{}, fmt.Errorf("edit span %s out of range for preview block", edit.Span)
	}

	original := file.Content[blockStart:blockEnd]
	relStart := edit.Span.Start - blockStart
	relEnd := edit.Span.End - blockStart

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return []string{""}
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}
