package check

import (
	"fmt"
	"slices"
	"strings"

	"glean/internal/diag"
)

// Settings selects and tunes the rules a Runner executes.
type Settings struct {
	Enabled  []string // пусто: все правила
	Disabled []string
	Severity map[string]diag.Severity
	Typos    map[string]string
}

var defaultSeverity = map[string]diag.Severity{
	"repeated-word": diag.SevWarning,
	"typo":          diag.SevWarning,
	"double-space":  diag.SevInfo,
	"article":       diag.SevWarning,
}

// RuleIDs lists the built-in rules in execution order.
func RuleIDs() []string {
	return []string{"repeated-word", "typo", "double-space", "article"}
}

// DefaultSeverity returns the severity a rule reports with unless overridden.
func DefaultSeverity(id string) diag.Severity {
	if sev, ok := defaultSeverity[id]; ok {
		return sev
	}
	return diag.SevWarning
}

func newRule(id string, s Settings) Rule {
	switch id {
	case "repeated-word":
		return RepeatedWord{}
	case "typo":
		return NewTypo(s.Typos)
	case "double-space":
		return DoubleSpace{}
	case "article":
		return Article{}
	default:
		return nil
	}
}

// Build resolves the settings into a Runner. Unknown rule ids are an error.
func Build(s Settings) (*Runner, error) {
	known := RuleIDs()
	for _, lists := range [][]string{s.Enabled, s.Disabled} {
		for _, id := range lists {
			if !slices.Contains(known, id) {
				return nil, fmt.Errorf("unknown rule %q (known: %s)", id, strings.Join(known, ", "))
			}
		}
	}
	for id := range s.Severity {
		if !slices.Contains(known, id) {
			return nil, fmt.Errorf("unknown rule %q in severity overrides", id)
		}
	}

	var rules []Rule
	severity := make(map[string]diag.Severity, len(known))
	for _, id := range known {
		if len(s.Enabled) > 0 && !slices.Contains(s.Enabled, id) {
			continue
		}
		if slices.Contains(s.Disabled, id) {
			continue
		}
		rules = append(rules, newRule(id, s))
		severity[id] = DefaultSeverity(id)
		if sev, ok := s.Severity[id]; ok {
			severity[id] = sev
		}
	}
	return NewRunner(rules, severity), nil
}
