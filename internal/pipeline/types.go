// Package pipeline describes progress events emitted while a directory of
// templates is checked.
package pipeline

import "time"

// Stage describes a phase of checking one file.
type Stage string

const (
	// StageLoad reads the file into the file set.
	StageLoad Stage = "load"
	// StageScan tokenizes the file.
	StageScan Stage = "scan"
	// StageParse validates the token stream.
	StageParse Stage = "parse"
	// StageCache is a cache lookup that made scanning and parsing unnecessary.
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Terminal reports whether no further events follow for the file.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: workers emit events from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Emit forwards evt to sink; a nil sink drops it.
func Emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
