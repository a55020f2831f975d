// Package supervisor launches one tailwind watch process per target and owns
// them until teardown.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/loykin/twwatch/internal/env"
	"github.com/loykin/twwatch/internal/history"
	"github.com/loykin/twwatch/internal/logger"
	"github.com/loykin/twwatch/internal/metrics"
	"github.com/loykin/twwatch/internal/process"
	"github.com/loykin/twwatch/internal/target"
)

// ErrClosed is returned by Launch once Teardown has run.
var ErrClosed = errors.New("supervisor closed")

const historyTimeout = 5 * time.Second

type Supervisor struct {
	mu      sync.Mutex
	procs   []*ManagedProcess
	closed  bool
	running sync.WaitGroup // exit observers

	log     *slog.Logger
	env     *env.Env
	files   logger.FileConfig
	history []history.Sink
}

func New(log *slog.Logger) *Supervisor {
	if log == nil {
		log = slog.Default()
	}
	return &Supervisor{log: log}
}

// SetEnv sets the environment handed to every watch process. Without it the
// processes inherit the current environment.
func (s *Supervisor) SetEnv(e *env.Env) {
	s.mu.Lock()
	s.env = e
	s.mu.Unlock()
}

// SetLogFiles enables per-target rotating output files.
func (s *Supervisor) SetLogFiles(fc logger.FileConfig) {
	s.mu.Lock()
	s.files = fc
	s.mu.Unlock()
}

// SetHistory configures sinks that receive launch, exit and kill events.
func (s *Supervisor) SetHistory(sinks ...history.Sink) {
	s.mu.Lock()
	s.history = append([]history.Sink(nil), sinks...)
	s.mu.Unlock()
}

// Launch starts `binary --input <in> --output <out> --watch` for t with root as
// the working directory. The process is killed when ctx is cancelled or on
// Teardown, whichever comes first. A failed launch is logged and returned; it
// leaves no state behind.
func (s *Supervisor) Launch(ctx context.Context, binary, root string, t target.WatchTarget) error {
	s.mu.Lock()
	closed := s.closed
	e := s.env
	files := s.files
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	err := s.launch(ctx, binary, root, t, e, files)
	if err != nil && !errors.Is(err, ErrClosed) {
		s.log.Error("Failed to launch tailwind watch process",
			slog.String("input", t.Input), slog.Any("error", err))
		metrics.IncLaunchFailure(t.Input)
	}
	return err
}

func (s *Supervisor) launch(ctx context.Context, binary, root string, t target.WatchTarget, e *env.Env, files logger.FileConfig) error {
	if err := t.Validate(root); err != nil {
		return err
	}
	output := t.EffectiveOutput(root)
	spec := process.Spec{
		Name:    t.Input,
		Path:    binary,
		Args:    process.WatchArgs(t.Input, output),
		WorkDir: root,
	}
	if e != nil {
		spec.Env = e.Merge(nil)
	}

	mp := &ManagedProcess{target: t, output: output, binary: binary, proc: process.New(spec)}
	if files.Enabled() {
		outW, errW, err := files.Writers(t.Input)
		if err != nil {
			return fmt.Errorf("open output files: %w", err)
		}
		mp.outW, mp.errW = outW, errW
	}

	onOut := mp.lineSink(s.log, slog.LevelInfo, mp.outW, func() { metrics.IncOutputLine(t.Input, metrics.StreamStdout) })
	onErr := mp.lineSink(s.log, slog.LevelError, mp.errW, func() { metrics.IncOutputLine(t.Input, metrics.StreamStderr) })
	mp.proc.OnTruncate(func(stream string, size int) {
		s.log.Warn("Tailwind output line truncated",
			slog.String("input", t.Input), slog.String("stream", stream),
			slog.Int("size", size), slog.Int("limit", process.MaxLineSize))
	})
	if err := mp.proc.Start(onOut, onErr); err != nil {
		mp.closeWriters()
		return err
	}

	mp.stop = context.AfterFunc(ctx, func() {
		if err := mp.terminate(); err != nil {
			s.log.Warn("Failed to terminate tailwind watch process",
				slog.String("input", t.Input), slog.Any("error", err))
		}
	})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("Watch process started after shutdown, terminating", slog.String("input", t.Input))
		mp.release()
		if err := mp.terminate(); err != nil {
			s.log.Warn("Failed to terminate tailwind watch process",
				slog.String("input", t.Input), slog.Any("error", err))
		}
		mp.closeWriters()
		return ErrClosed
	}
	s.procs = append(s.procs, mp)
	s.running.Add(1)
	sinks := s.history
	s.mu.Unlock()

	st := mp.Status()
	s.log.Info("Started tailwind watch process",
		slog.String("input", t.Input), slog.String("output", output), slog.Int("pid", st.PID))
	metrics.IncLaunch(t.Input)
	s.record(sinks, history.EventStart, st)

	go s.observe(mp, sinks)
	return nil
}

// observe waits for mp to exit and reports how it ended.
func (s *Supervisor) observe(mp *ManagedProcess, sinks []history.Sink) {
	defer s.running.Done()
	<-mp.proc.Done()
	mp.release()
	mp.closeWriters()

	st := mp.Status()
	metrics.ObserveExit(st.Input, st.Killed)
	if st.Killed {
		s.record(sinks, history.EventKill, st)
		return
	}
	s.log.Warn("Tailwind watch process exited",
		slog.String("input", st.Input), slog.Int("pid", st.PID), slog.String("error", st.ExitErr))
	s.record(sinks, history.EventExit, st)
}

func (s *Supervisor) record(sinks []history.Sink, typ history.EventType, st ProcessStatus) {
	if len(sinks) == 0 {
		return
	}
	evt := history.Event{
		Type:       typ,
		OccurredAt: time.Now().UTC(),
		Record: history.Record{
			Input:   st.Input,
			Output:  st.Output,
			Binary:  st.Binary,
			PID:     st.PID,
			ExitErr: st.ExitErr,
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	for _, h := range sinks {
		if err := h.Send(ctx, evt); err != nil {
			s.log.Debug("Failed to record history event",
				slog.String("input", st.Input), slog.String("event", string(typ)), slog.Any("error", err))
		}
	}
}

// Teardown terminates every managed process exactly once and empties the
// supervisor. Termination failures are logged and do not stop the remaining
// teardown. Calling Teardown again is a no-op; later launches are refused.
func (s *Supervisor) Teardown() {
	s.mu.Lock()
	s.closed = true
	procs := s.procs
	s.procs = nil
	s.mu.Unlock()

	for _, mp := range procs {
		mp.release()
		if err := mp.terminate(); err != nil {
			s.log.Warn("Failed to terminate tailwind watch process",
				slog.String("input", mp.target.Input), slog.Any("error", err))
		}
	}
	s.running.Wait()
}

// Processes returns status snapshots of the managed processes in launch order.
func (s *Supervisor) Processes() []ProcessStatus {
	s.mu.Lock()
	procs := append([]*ManagedProcess(nil), s.procs...)
	s.mu.Unlock()
	out := make([]ProcessStatus, 0, len(procs))
	for _, mp := range procs {
		out = append(out, mp.Status())
	}
	return out
}

// Count returns the number of managed processes.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.procs)
}
