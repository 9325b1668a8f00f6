package driver

import "time"

// Stage describes a per-file pipeline phase.
type Stage string

const (
	StageLoad    Stage = "load"
	StageExtract Stage = "extract"
	StageCheck   Stage = "check"
	// StageCache marks results served from the disk cache.
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
	Findings int
}

// Sink consumes progress events. OnEvent may be called from several
// goroutines.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent implements Sink.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// OnEvent implements Sink.
func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink Sink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
