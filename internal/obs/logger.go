// Package obs is the observability seam between the client and the
// host program: a Logger for lifecycle events and a Meter for
// counters and timings. A bare client plugs in the no-op
// implementations and stays silent.
package obs

import "log"

// Level orders log events by severity.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < Debug || l > Error {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Logger receives formatted client events.
type Logger interface {
	Logf(level Level, format string, args ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Logf(Level, string, ...interface{}) {}

// StdLogger writes events at or above Min through a standard library
// logger, tagging each line with its severity. A nil L drops
// everything.
type StdLogger struct {
	L   *log.Logger
	Min Level
}

func (s StdLogger) Logf(level Level, format string, args ...interface{}) {
	if s.L == nil || level < s.Min {
		return
	}
	s.L.Printf(level.String()+" "+format, args...)
}
