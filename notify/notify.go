/*
Package notify delivers user facing status messages.

Notifications are fire and forget. A Sink never returns an error and the
caller never waits for the user to acknowledge a message.
*/
package notify

import (
	"fmt"
	"sync"

	"github.com/iov-one/cosign"
	"github.com/tendermint/tendermint/libs/log"
)

// Level is the severity of a notification.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Sink consumes notifications.
type Sink interface {
	Notify(level Level, msg string)
}

// Nop is a sink that drops all notifications.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(Level, string) {}

// Or returns given sink, or Nop when it is nil.
func Or(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

// Multi fans out every notification to all sinks, in order.
type Multi []Sink

// Notify forwards the notification to every sink.
func (m Multi) Notify(level Level, msg string) {
	for _, s := range m {
		s.Notify(level, msg)
	}
}

// LogSink writes notifications to a logger. Errors are logged at error
// level, everything else at info level.
type LogSink struct {
	logger log.Logger
}

// NewLogSink returns a sink writing to given logger.
func NewLogSink(logger log.Logger) LogSink {
	return LogSink{logger: cosign.LoggerOr(logger).With("module", "notify")}
}

// Notify logs the message.
func (s LogSink) Notify(level Level, msg string) {
	switch level {
	case Error:
		s.logger.Error(msg, "level", level)
	default:
		s.logger.Info(msg, "level", level)
	}
}

// Recorder keeps all notifications in memory. It is safe for concurrent
// use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Entry is a single recorded notification.
type Entry struct {
	Level Level
	Msg   string
}

// Notify records the notification.
func (r *Recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg})
	r.mu.Unlock()
}

// Entries returns a copy of all recorded notifications.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Entry, len(r.entries))
	copy(res, r.entries)
	return res
}

// Count returns the number of recorded notifications of given level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
