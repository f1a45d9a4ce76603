package pipeline

import (
	"sync"
	"time"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a function to ProgressSink.
type FuncSink func(Event)

func (f FuncSink) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

// Recorder keeps every event; used by tests and by --timings.
type Recorder struct {
	mu      sync.Mutex
	events  []Event
	timings Timings
}

func (r *Recorder) OnEvent(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	if evt.Status == StatusDone || evt.Status == StatusError {
		r.timings.Add(evt.Stage, evt.Elapsed)
	}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Total returns the summed elapsed time of finished stages.
func (r *Recorder) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timings.Sum(StageParse, StageExpand, StageWrite)
}

// Timings returns a copy of the per-stage durations.
func (r *Recorder) Timings() Timings {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := Timings{}
	for stage, dur := range r.timings.stages {
		out.Add(stage, dur)
	}
	return out
}

// MultiSink fans events out to several sinks in order.
type MultiSink []ProgressSink

func (m MultiSink) OnEvent(evt Event) {
	for _, sink := range m {
		Emit(sink, evt)
	}
}

// Emit sends evt to sink when sink is not nil.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// EmitQueued marks every file as queued.
func EmitQueued(sink ProgressSink, files []string) {
	for _, file := range files {
		Emit(sink, Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}
