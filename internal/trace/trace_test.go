package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeContent, false},
		{LevelDebug, ScopeContent, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel accepted an unknown level")
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	root, ctx := Start(ctx, ScopePass, "check")
	file, _ := Start(ctx, ScopeFile, "file")
	file.WithExtra("path", "a.md").End("")
	content, _ := Start(ctx, ScopeContent, "content")
	content.End("")
	root.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "file" || ev.Extra["path"] != "a.md" || ev.ParentID != root.ID() {
		t.Fatalf("unexpected file end event: %+v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for range 5 {
		Point(tr, ScopeContent, "tick", "")
	}
	events := tr.Snapshot()
	if len(events) != 3 {
		t.Fatalf("snapshot has %d events", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Fatalf("events out of order: %d then %d", events[i-1].Seq, events[i].Seq)
		}
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "tick") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestNopTracerFromEmptyContext(t *testing.T) {
	span, ctx := Start(context.Background(), ScopeDriver, "noop")
	if span.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Fatal("nop tracer must not allocate span ids")
	}
	span.End("")
}

func TestFindRing(t *testing.T) {
	ring := NewRingTracer(4, LevelPhase)
	multi := NewMultiTracer(LevelPhase, NewStreamTracer(&bytes.Buffer{}, LevelPhase, FormatText), ring)
	if got, ok := FindRing(multi); !ok || got != ring {
		t.Fatal("ring not found inside multi tracer")
	}
	if _, ok := FindRing(Nop); ok {
		t.Fatal("nop tracer has no ring")
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelPhase, FormatText))
	span, _ := Start(ctx, ScopePass, "render")
	span.WithExtra("format", "json").WithExtra("bytes", "12").End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got:\n%s", buf.String())
	}
	if !strings.Contains(lines[0], " > render#") {
		t.Errorf("begin line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "(ok) bytes=12 format=json") {
		t.Errorf("end line %q", lines[1])
	}
}

func TestNewModes(t *testing.T) {
	if tr, err := New(Config{Level: LevelOff}); err != nil || tr != Nop {
		t.Fatalf("LevelOff: %v %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeDriver, "hello", "")
	ring, ok := FindRing(tr)
	if !ok || len(ring.Snapshot()) != 1 || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("event not delivered to both sinks: %q", buf.String())
	}
	if _, err := New(Config{Level: LevelPhase, Mode: 9}); err == nil {
		t.Error("New accepted an unknown mode")
	}
	if m, err := ParseMode("BOTH"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(BOTH) = %v, %v", m, err)
	}
	if formatForPath("run.ndjson") != FormatNDJSON || formatForPath("-") != FormatText {
		t.Error("format is not picked by extension")
	}
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(16, LevelError)
	hb := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()
	events := ring.Snapshot()
	if len(events) == 0 || events[0].Kind != KindHeartbeat || events[0].Detail != "#1" {
		t.Fatalf("heartbeat events: %+v", events)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Error("heartbeat started on a disabled tracer")
	}
}
