package supervisor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/loykin/twwatch/internal/process"
	"github.com/loykin/twwatch/internal/target"
)

// ManagedProcess is one running watch process owned by a Supervisor.
type ManagedProcess struct {
	target target.WatchTarget
	output string // effective output path
	binary string
	proc   *process.Process

	stop  func() bool // releases the context binding
	once  sync.Once
	kills atomic.Int32 // termination requests actually issued

	outW io.WriteCloser
	errW io.WriteCloser
}

// release detaches the process from its context.
func (mp *ManagedProcess) release() {
	if mp.stop != nil {
		mp.stop()
	}
}

// terminate kills the process tree. Only the first call has any effect; later
// calls return nil.
func (mp *ManagedProcess) terminate() error {
	var err error
	mp.once.Do(func() {
		mp.kills.Add(1)
		err = mp.proc.Kill()
	})
	return err
}

func (mp *ManagedProcess) closeWriters() {
	if mp.outW != nil {
		_ = mp.outW.Close()
	}
	if mp.errW != nil {
		_ = mp.errW.Close()
	}
}

// lineSink returns the per-line callback for one output stream.
func (mp *ManagedProcess) lineSink(log *slog.Logger, level slog.Level, w io.Writer, count func()) process.LineFunc {
	input := mp.target.Input
	return func(line string) {
		log.Log(context.Background(), level, line, slog.String("input", input))
		if w != nil {
			_, _ = io.WriteString(w, line+"\n")
		}
		count()
	}
}

// ProcessStatus is a point-in-time view of a managed watch process.
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

func (mp *ManagedProcess) Status() ProcessStatus {
	st := mp.proc.Snapshot()
	return ProcessStatus{
		Input:     mp.target.Input,
		Output:    mp.output,
		Binary:    mp.binary,
		PID:       st.PID,
		Running:   st.Running,
		StartedAt: st.StartedAt,
		StoppedAt: st.StoppedAt,
		ExitErr:   st.ExitError(),
		Killed:    st.Killed,
	}
}
