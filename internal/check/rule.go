package check

import (
	"context"

	"glean/internal/diag"
	"glean/internal/textcontent"
)

// Finding is a rule match in content-local coordinates: [Start, End) are
// offsets into the visible text of the checked content.
type Finding struct {
	Start, End  int
	Code        diag.Code
	Message     string
	Replacement *string // nil when the rule has no suggestion
}

// Rule inspects the visible text of a content.
type Rule interface {
	ID() string
	Description() string
	Code() diag.Code
	Check(ctx context.Context, c *textcontent.Content) []Finding
}

func replacement(s string) *string { return &s }
