package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of the run is traced.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // nothing is written, the ring is kept for panics
	LevelPhase        // driver and pass spans
	LevelDetail       // plus file spans
	LevelDebug        // plus content spans
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by Level.String.
func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == want {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("unknown trace level %q, want one of %s", s, strings.Join(levelNames[:], "|"))
}

// deepest scope each level lets through
var levelDepth = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeFile,
	LevelDebug:  ScopeContent,
}

// ShouldEmit reports whether events of scope are recorded at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelDepth) {
		return false
	}
	return scope != 0 && scope <= levelDepth[l]
}
