package process

import "time"

// Status is a point-in-time view of a Process.
type Status struct {
	Name      string    `json:"name"`
	Running   bool      `json:"running"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	StoppedAt time.Time `json:"stopped_at"`
	ExitErr   error     `json:"-"`
	Killed    bool      `json:"killed"` // exit was caused by Kill
}

// ExitError returns the exit error text, or "" when the process exited cleanly or is running.
func (s Status) ExitError() string {
	if s.ExitErr == nil {
		return ""
	}
	return s.ExitErr.Error()
}
