package history

import (
	"context"
	"time"
)

// EventType defines the kind of watcher lifecycle event.
type EventType string

const (
	EventStart EventType = "start" // a watch process was launched
	EventExit  EventType = "exit"  // a watch process exited on its own
	EventKill  EventType = "kill"  // a watch process was terminated during teardown
)

// Record describes the watch process an event refers to.
type Record struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Binary  string `json:"binary"`
	PID     int    `json:"pid"`
	ExitErr string `json:"exit_err,omitempty"`
}

// Event represents a lifecycle event to be exported to external systems.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Record     Record    `json:"record"`
}

// Sink is a destination for history events.
// Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
}

// Columns is the column list every SQL sink stores events under, in insert
// order: type, time, input, output, binary, pid, exit error.
const Columns = "event_type, occurred_at, input, output, binary_path, pid, exit_err"

// Nullable maps an empty string to a SQL NULL.
func Nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
