package watcher

// State is the lifecycle state of a Service.
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
	StateFailed // terminal; the binary or the target plan could not be resolved
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON and logs.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// stateNames lists every state, used to reset the state gauge.
var stateNames = []string{
	StateNotStarted.String(),
	StateStarting.String(),
	StateRunning.String(),
	StateStopping.String(),
	StateStopped.String(),
	StateFailed.String(),
}
