package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Smaller values are coarser.
type Scope uint8

const (
	ScopeDriver  Scope = iota + 1 // whole command
	ScopePass                     // load, extract, check, render
	ScopeFile                     // one input file
	ScopeContent                  // one extracted content
)

var scopeNames = [...]string{
	ScopeDriver:  "driver",
	ScopePass:    "pass",
	ScopeFile:    "file",
	ScopeContent: "content",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record in the trace.
type Event struct {
	Time     time.Time
	Seq      uint64 // порядковый номер внутри процесса
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string
	Detail   string
	Extra    map[string]string
}
