package client

import "time"

// Status mirrors the body of GET {base}/status.
type Status struct {
	State     string          `json:"state"`
	Root      string          `json:"root,omitempty"`
	Binary    string          `json:"binary,omitempty"`
	Error     string          `json:"error,omitempty"`
	Processes []ProcessStatus `json:"processes"`
}

// ProcessStatus represents the status of a single watch process.
type ProcessStatus struct {
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Binary    string    `json:"binary"`
	PID       int       `json:"pid"`
	Running   bool      `json:"running"`
	StartedAt time.Time `json:"started_at"`
	StoppedAt time.Time `json:"stopped_at,omitempty"`
	ExitErr   string    `json:"exit_err,omitempty"`
	Killed    bool      `json:"killed"`
}

// Health mirrors the body of GET {base}/healthz.
type Health struct {
	State string `json:"state"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}
