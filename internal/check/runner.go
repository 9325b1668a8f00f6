package check

import (
	"context"
	"fmt"
	"strconv"

	"glean/internal/diag"
	"glean/internal/fix"
	"glean/internal/textcontent"
	"glean/internal/trace"
)

// Runner executes a fixed set of rules and reports the surviving findings.
type Runner struct {
	rules    []Rule
	severity map[string]diag.Severity
}

// NewRunner creates a runner. Rules missing from severity report with their
// default severity.
func NewRunner(rules []Rule, severity map[string]diag.Severity) *Runner {
	return &Runner{rules: rules, severity: severity}
}

// Rules returns the rules in execution order.
func (r *Runner) Rules() []Rule {
	return r.rules
}

func (r *Runner) severityOf(rule Rule) diag.Severity {
	if sev, ok := r.severity[rule.ID()]; ok {
		return sev
	}
	return DefaultSeverity(rule.ID())
}

// Run checks every content and sends diagnostics to reporter. A finding is
// dropped when an unknown fragment touches its range or when its file range
// does not overlap any visible text. Returns the number of reported
// diagnostics; the only error is ctx cancellation.
func (r *Runner) Run(ctx context.Context, contents []*textcontent.Content, reporter diag.Reporter) (int, error) {
	reported := 0
	for _, c := range contents {
		if err := ctx.Err(); err != nil {
			return reported, err
		}
		if c == nil || c.Len() == 0 {
			continue
		}
		span, cctx := trace.Start(ctx, trace.ScopeContent, "check")
		n := 0
		for _, rule := range r.rules {
			for _, f := range rule.Check(cctx, c) {
				if r.report(c, rule, f, reporter) {
					n++
				}
			}
		}
		span.WithExtra("domain", c.Domain().String()).
			WithExtra("findings", strconv.Itoa(n)).
			End("")
		reported += n
	}
	return reported, nil
}

func (r *Runner) report(c *textcontent.Content, rule Rule, f Finding, reporter diag.Reporter) bool {
	if f.Start >= f.End {
		return false
	}
	unknown, err := c.HasUnknownFragmentsIn(f.Start, f.End)
	if err != nil || unknown {
		return false
	}
	sp, err := c.FileRange(f.Start, f.End)
	if err != nil || !c.IntersectsRange(sp) {
		return false
	}
	code := f.Code
	if code == diag.UnknownCode {
		code = rule.Code()
	}
	b := diag.NewReportBuilder(reporter, r.severityOf(rule), code, sp, f.Message)
	// правка допустима, только если видимый текст совпадает с байтами файла
	if f.Replacement != nil && c.IsContiguous(f.Start, f.End) {
		old := c.String()[f.Start:f.End]
		if *f.Replacement == "" {
			b.AddFix(fix.DeleteSpan(fixTitle(old, ""), sp, old))
		} else {
			b.AddFix(fix.ReplaceSpan(fixTitle(old, *f.Replacement), sp, *f.Replacement, old))
		}
	}
	b.Emit()
	return true
}

func fixTitle(old, repl string) string {
	switch {
	case repl == "":
		return fmt.Sprintf("remove %q", old)
	case repl == " ":
		return "collapse spaces"
	default:
		return fmt.Sprintf("replace with %q", repl)
	}
}
