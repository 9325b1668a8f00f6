// Package observ measures how long the phases of a run take.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type phase struct {
	name    string
	started time.Time
	dur     time.Duration
	note    string
	count   int
	summed  bool // накоплена через Record, в total не входит
}

// Timer records sequential phases (Begin/End) and per-file work summed
// across workers (Record). A nil *Timer ignores every call.
type Timer struct {
	mu     sync.Mutex
	phases []phase
	byName map[string]int // только накопленные фазы
}

func NewTimer() *Timer {
	return &Timer{byName: make(map[string]int)}
}

// Begin opens a phase and returns the handle End expects.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, phase{name: name, started: time.Now(), count: 1})
	return len(t.phases) - 1
}

// End closes the phase opened by Begin. Unknown handles are ignored.
func (t *Timer) End(handle int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if handle < 0 || handle >= len(t.phases) {
		return
	}
	p := &t.phases[handle]
	p.dur, p.note = time.Since(p.started), note
}

// Record adds d to the summed phase name.
func (t *Timer) Record(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.byName[name]; ok {
		t.phases[i].dur += d
		t.phases[i].count++
		return
	}
	t.byName[name] = len(t.phases)
	t.phases = append(t.phases, phase{name: name, started: time.Now(), dur: d, count: 1, summed: true})
}

// PhaseReport is one phase in a Report.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Report is a snapshot of the timer. TotalMS covers Begin/End phases only,
// since summed phases overlap each other in wall time.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		if !p.summed {
			total += p.dur
		}
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: ms(p.dur), Count: p.count, Note: p.note})
	}
	r.TotalMS = ms(total)
	return r
}

// Summary renders the report as an aligned table for stderr.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&b, "  x%d", p.Count)
		}
		if p.Note != "" {
			fmt.Fprintf(&b, "  // %s", p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return b.String()
}
