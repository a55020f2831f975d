// Package watcher runs one tailwind watch process per resolved target for as
// long as its context lives.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/loykin/twwatch/internal/locator"
	"github.com/loykin/twwatch/internal/metrics"
	"github.com/loykin/twwatch/internal/supervisor"
	"github.com/loykin/twwatch/internal/target"
)

var ErrAlreadyStarted = errors.New("watcher already started")

// Service is the watcher state machine:
// NotStarted -> Starting -> Running -> Stopping -> Stopped, or Failed when
// startup cannot resolve its targets or the tailwind binary.
type Service struct {
	opts target.Options
	log  *slog.Logger
	sup  *supervisor.Supervisor
	goos string

	mu     sync.Mutex
	state  State
	plan   target.Plan
	binary string
	err    error

	stopOnce sync.Once
}

func New(opts target.Options, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		opts: opts,
		log:  log,
		sup:  supervisor.New(log),
		goos: runtime.GOOS,
	}
}

// Supervisor exposes the process supervisor for configuration (env, log
// files, history) before Start.
func (s *Service) Supervisor() *supervisor.Supervisor { return s.sup }

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that put the service into StateFailed, if any.
func (s *Service) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	metrics.SetServiceState(st.String(), stateNames)
}

func (s *Service) fail(err error) error {
	s.mu.Lock()
	s.state = StateFailed
	s.err = err
	s.mu.Unlock()
	metrics.SetServiceState(StateFailed.String(), stateNames)
	return err
}

// Start resolves the targets and the tailwind binary and launches a watch
// process for every target, in order. Watch processes live until ctx is
// cancelled or Stop is called. A target that fails to launch is logged and
// skipped. Start may be called only once.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateNotStarted {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateStarting
	s.mu.Unlock()
	metrics.SetServiceState(StateStarting.String(), stateNames)

	plan, err := target.Resolve(s.opts, s.log)
	if err != nil {
		s.log.Error("Failed to resolve watch targets", slog.Any("error", err))
		return s.fail(fmt.Errorf("resolve targets: %w", err))
	}

	binary, err := locator.LocateFor(plan.Root(), s.goos, s.log)
	if err != nil {
		s.log.Error("Tailwind binary not found, watcher disabled",
			slog.String("root", plan.Root()), slog.Any("error", err))
		return s.fail(err)
	}

	s.mu.Lock()
	s.plan = plan
	s.binary = binary
	s.mu.Unlock()

	s.log.Info("Starting tailwind watchers",
		slog.String("binary", binary), slog.Int("targets", plan.Len()))
	for _, t := range plan.Targets() {
		if err := s.sup.Launch(ctx, binary, plan.Root(), t); errors.Is(err, supervisor.ErrClosed) {
			break
		}
	}

	s.mu.Lock()
	promote := s.state == StateStarting
	if promote {
		s.state = StateRunning
	}
	s.mu.Unlock()
	if promote {
		metrics.SetServiceState(StateRunning.String(), stateNames)
	}
	return nil
}

// Run starts the service, blocks until ctx is done and then stops it.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		s.Stop()
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop tears down all watch processes. It is safe to call more than once and
// before Start; a stopped service cannot be started.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		failed := s.state == StateFailed
		if !failed {
			s.state = StateStopping
		}
		s.mu.Unlock()
		if !failed {
			metrics.SetServiceState(StateStopping.String(), stateNames)
			s.log.Info("Stopping tailwind watchers", slog.Int("processes", s.sup.Count()))
		}

		s.sup.Teardown()

		if !failed {
			s.setState(StateStopped)
		}
	})
}

// Status is a snapshot of the service for the status API.
type Status struct {
	State     State                      `json:"state"`
	Root      string                     `json:"root,omitempty"`
	Binary    string                     `json:"binary,omitempty"`
	Error     string                     `json:"error,omitempty"`
	Processes []supervisor.ProcessStatus `json:"processes"`
}

func (s *Service) Status() Status {
	s.mu.Lock()
	st := Status{State: s.state, Root: s.plan.Root(), Binary: s.binary}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	s.mu.Unlock()
	st.Processes = s.sup.Processes()
	return st
}
