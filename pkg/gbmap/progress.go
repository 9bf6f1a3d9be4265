// SPDX-License-Identifier: MPL-2.0

package gbmap

import "sync"

const (
	// EventPhase carries the name of the step being performed.
	EventPhase EventKind = iota + 1
	// EventProgress carries an overall completion percentage.
	EventProgress
	// EventLog carries a human-readable log line.
	EventLog
	// EventFinished signals a successful export.
	EventFinished
	// EventError signals a failed or canceled export.
	EventError
)

type (
	// ProgressSink receives phase, progress and log notifications from an
	// export. Implementations are called from the exporting goroutine and
	// must not block for long.
	ProgressSink interface {
		OnPhase(name string)
		OnProgress(percent int)
		OnLog(line string)
		OnFinished()
		OnError(message string)
	}

	// EventKind discriminates Event values.
	EventKind int

	// Event is a ProgressSink notification in value form.
	Event struct {
		Kind    EventKind
		Phase   string
		Percent int
		Line    string
		Message string
	}

	// NopSink discards every notification.
	NopSink struct{}

	// SinkFuncs adapts optional callbacks to ProgressSink. Nil fields are skipped.
	SinkFuncs struct {
		Phase    func(name string)
		Progress func(percent int)
		Log      func(line string)
		Finished func()
		Error    func(message string)
	}

	// ChannelSink delivers notifications as Events on a buffered channel, so
	// the goroutine that owns the display never shares state with the
	// exporting goroutine.
	ChannelSink struct {
		mu     sync.Mutex
		ch     chan Event
		closed bool
	}
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventPhase:
		return "phase"
	case EventProgress:
		return "progress"
	case EventLog:
		return "log"
	case EventFinished:
		return "finished"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the event ends an export.
func (e Event) IsTerminal() bool {
	return e.Kind == EventFinished || e.Kind == EventError
}

func (NopSink) OnPhase(string) {}
func (NopSink) OnProgress(int) {}
func (NopSink) OnLog(string)   {}
func (NopSink) OnFinished()    {}
func (NopSink) OnError(string) {}

func (f SinkFuncs) OnPhase(name string) {
	if f.Phase != nil {
		f.Phase(name)
	}
}

func (f SinkFuncs) OnProgress(percent int) {
	if f.Progress != nil {
		f.Progress(clampPercent(percent))
	}
}

func (f SinkFuncs) OnLog(line string) {
	if f.Log != nil {
		f.Log(line)
	}
}

func (f SinkFuncs) OnFinished() {
	if f.Finished != nil {
		f.Finished()
	}
}

func (f SinkFuncs) OnError(message string) {
	if f.Error != nil {
		f.Error(message)
	}
}

// NewChannelSink creates a ChannelSink whose channel holds up to buffer
// undelivered events.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, buffer)}
}

// Events returns the receive side of the sink. The channel is closed by Close.
func (s *ChannelSink) Events() <-chan Event { return s.ch }

// Close closes the event channel. Notifications after Close are dropped.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *ChannelSink) OnPhase(name string) { s.send(Event{Kind: EventPhase, Phase: name}) }

func (s *ChannelSink) OnProgress(percent int) {
	s.send(Event{Kind: EventProgress, Percent: clampPercent(percent)})
}

func (s *ChannelSink) OnLog(line string) { s.send(Event{Kind: EventLog, Line: line}) }

func (s *ChannelSink) OnFinished() { s.send(Event{Kind: EventFinished}) }

func (s *ChannelSink) OnError(message string) { s.send(Event{Kind: EventError, Message: message}) }

func (s *ChannelSink) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ch <- ev
}

func clampPercent(p int) int {
	return min(max(p, 0), 100)
}
