// Package trace records where a glean run spends its time.
//
// Spans are opened with Start and closed with End; the tracer travels in
// the context next to the current span, so nested calls get parent ids
// without any extra plumbing:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.Start(ctx, trace.ScopeDriver, "check")
//	defer span.End("")
//
// The level decides how deep the trace goes. LevelPhase keeps the driver
// and pass spans, LevelDetail adds one span per file, LevelDebug adds one
// span per extracted content. Events go to a writer (ModeStream), to an
// in-memory ring that is dumped after a panic (ModeRing), or to both.
package trace
