package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// waitDelay bounds how long Wait keeps copying output after the process exits,
// in case a descendant escaped the kill and still holds the pipes.
const waitDelay = 2 * time.Second

// killWait is how long Kill waits for the process to be reaped.
const killWait = 3 * time.Second

// Process owns one external subprocess whose stdout and stderr are consumed as
// line streams. A Process is started at most once.
type Process struct {
	spec     Spec
	cmd      *exec.Cmd
	status   Status
	mu       sync.Mutex
	stopping bool          // true once Kill has been requested
	onTrunc  TruncateFunc
	waitDone chan struct{} // closed once the process is reaped and both streams are drained
}

func New(spec Spec) *Process { return &Process{spec: spec, waitDone: make(chan struct{})} }

// Spec returns a copy of the spec the process was created with.
func (r *Process) Spec() Spec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.spec
}

// OnTruncate registers fn to be told about output lines longer than
// MaxLineSize. It must be called before Start.
func (r *Process) OnTruncate(fn TruncateFunc) {
	r.mu.Lock()
	r.onTrunc = fn
	r.mu.Unlock()
}

// Start launches the command. Each non-blank stdout line is passed to onOut and
// each non-blank stderr line to onErr, from separate goroutines. Start returns
// once the process is running; reaping happens in the background.
func (r *Process) Start(onOut, onErr LineFunc) error {
	r.mu.Lock()
	if r.cmd != nil {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	spec := r.spec
	trunc := r.onTrunc
	r.mu.Unlock()

	cmd := spec.BuildCommand()
	configureSysProcAttr(cmd)
	cmd.WaitDelay = waitDelay

	outR, outW := io.Pipe()
	errR, errW := io.Pipe()
	cmd.Stdout = outW
	cmd.Stderr = errW

	if err := cmd.Start(); err != nil {
		_ = outW.Close()
		_ = errW.Close()
		return fmt.Errorf("start %s: %w", spec.Path, err)
	}
	r.setStarted(cmd)

	var streams sync.WaitGroup
	streams.Add(2)
	go func() { defer streams.Done(); consume(outR, StreamStdout, onOut, trunc) }()
	go func() { defer streams.Done(); consume(errR, StreamStderr, onErr, trunc) }()

	go func() {
		err := cmd.Wait()
		_ = outW.Close()
		_ = errW.Close()
		streams.Wait()
		r.markExited(err)
		close(r.waitDone)
	}()
	return nil
}

func (r *Process) setStarted(cmd *exec.Cmd) {
	r.mu.Lock()
	r.cmd = cmd
	r.status.Name = r.spec.Name
	r.status.Running = true
	r.status.PID = cmd.Process.Pid
	r.status.StartedAt = time.Now()
	r.mu.Unlock()
}

func (r *Process) markExited(err error) {
	r.mu.Lock()
	r.status.Running = false
	r.status.StoppedAt = time.Now()
	r.status.ExitErr = err
	r.status.Killed = r.stopping
	r.mu.Unlock()
}

// Done is closed once the process has exited and its output streams are drained.
func (r *Process) Done() <-chan struct{} { return r.waitDone }

// StopRequested reports whether Kill has been called.
func (r *Process) StopRequested() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopping
}

// Snapshot returns a copy of the current status.
func (r *Process) Snapshot() Status {
	r.mu.Lock()
	s := r.status
	r.mu.Unlock()
	return s
}

// Kill forcibly terminates the process and all of its descendants, then waits
// briefly for the process to be reaped. Killing an exited or never-started
// process is a no-op.
func (r *Process) Kill() error {
	r.mu.Lock()
	cmd := r.cmd
	if cmd == nil || cmd.Process == nil {
		r.mu.Unlock()
		return nil
	}
	r.stopping = true
	r.mu.Unlock()

	select {
	case <-r.waitDone:
		return nil
	default:
	}

	err := killTree(cmd.Process.Pid)
	select {
	case <-r.waitDone:
	case <-time.After(killWait):
		if err == nil {
			err = fmt.Errorf("process %d not reaped within %s", cmd.Process.Pid, killWait)
		}
	}
	return err
}

// Result holds the captured output of a one-shot run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes spec synchronously and captures its output. A non-zero exit is
// returned as an error carrying the captured stderr text.
func Run(ctx context.Context, spec Spec) (Result, error) {
	cmd := spec.BuildCommandContext(ctx)
	configureSysProcAttr(cmd)
	cmd.Cancel = func() error { return killTree(cmd.Process.Pid) }
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.ExitCode = ee.ExitCode()
		} else {
			res.ExitCode = -1
		}
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			return res, fmt.Errorf("run %s: %w: %s", spec.Path, err, msg)
		}
		return res, fmt.Errorf("run %s: %w", spec.Path, err)
	}
	return res, nil
}
