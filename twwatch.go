// Package twwatch runs the tailwind standalone CLI in watch mode for a set of
// stylesheets and keeps those processes alive for as long as the caller's
// context. It also exposes the one-shot minified build used at publish time.
package twwatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loykin/twwatch/internal/build"
	cfg "github.com/loykin/twwatch/internal/config"
	"github.com/loykin/twwatch/internal/history"
	"github.com/loykin/twwatch/internal/history/factory"
	"github.com/loykin/twwatch/internal/locator"
	"github.com/loykin/twwatch/internal/metrics"
	iapi "github.com/loykin/twwatch/internal/server"
	"github.com/loykin/twwatch/internal/supervisor"
	"github.com/loykin/twwatch/internal/target"
	"github.com/loykin/twwatch/internal/watcher"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type WatchTarget = target.WatchTarget

type Options = target.Options

type Plan = target.Plan

type State = watcher.State

type Status = watcher.Status

type ProcessStatus = supervisor.ProcessStatus

type BuildTask = build.Task

type Config = cfg.FileConfig

type HistorySink = history.Sink

type HistoryEvent = history.Event

const (
	StateNotStarted = watcher.StateNotStarted
	StateStarting   = watcher.StateStarting
	StateRunning    = watcher.StateRunning
	StateStopping   = watcher.StateStopping
	StateStopped    = watcher.StateStopped
	StateFailed     = watcher.StateFailed
)

var (
	ErrAlreadyStarted    = watcher.ErrAlreadyStarted
	ErrBinaryDirNotFound = locator.ErrBinaryDirNotFound
	ErrBinaryNotFound    = locator.ErrBinaryNotFound
	ErrInputNotFound     = target.ErrInputNotFound
)

// Watcher is a thin facade over internal/watcher.Service.
// It provides a stable public API for embedding.
type Watcher struct {
	inner   *watcher.Service
	closers []io.Closer
}

// New returns a watcher for opts. A nil log uses slog.Default().
func New(opts Options, log *slog.Logger) *Watcher {
	return &Watcher{inner: watcher.New(opts, log)}
}

// FromConfig builds a watcher from a loaded config: target options, process
// environment, per-target output files and, when a history DSN is set, a
// history sink. Call Close to release the sink.
func FromConfig(fc *Config, log *slog.Logger) (*Watcher, error) {
	e, err := fc.BuildEnv()
	if err != nil {
		return nil, err
	}
	w := New(fc.Options(), log)
	sup := w.inner.Supervisor()
	sup.SetEnv(e)
	sup.SetLogFiles(fc.LoggerConfig().File)
	if fc.History.DSN != "" {
		sink, err := NewHistorySinkFromDSN(fc.History.DSN)
		if err != nil {
			return nil, err
		}
		w.SetHistory(sink)
		if c, ok := sink.(io.Closer); ok {
			w.closers = append(w.closers, c)
		}
	}
	return w, nil
}

func (w *Watcher) Start(ctx context.Context) error { return w.inner.Start(ctx) }
func (w *Watcher) Run(ctx context.Context) error   { return w.inner.Run(ctx) }
func (w *Watcher) Stop()                           { w.inner.Stop() }
func (w *Watcher) State() State                    { return w.inner.State() }
func (w *Watcher) Status() Status                  { return w.inner.Status() }

// SetHistory configures sinks receiving launch, exit and kill events. Call before Start.
func (w *Watcher) SetHistory(sinks ...HistorySink) { w.inner.Supervisor().SetHistory(sinks...) }

// Close releases resources opened by FromConfig. The watcher must be stopped first.
func (w *Watcher) Close() error {
	var errs []error
	for _, c := range w.closers {
		errs = append(errs, c.Close())
	}
	w.closers = nil
	return errors.Join(errs...)
}

func LoadConfig(path string) (*Config, error) { return cfg.Load(path) }

// Resolve computes the ordered target list for opts without starting anything.
func Resolve(opts Options, log *slog.Logger) (Plan, error) { return target.Resolve(opts, log) }

// Locate returns the tailwind executable for this platform under <root>/.tailwind.
func Locate(root string) (string, error) { return locator.Locate(root) }

// NewHistorySinkFromDSN opens a sqlite, postgres or clickhouse history sink.
func NewHistorySinkFromDSN(dsn string) (HistorySink, error) { return factory.NewSinkFromDSN(dsn) }

// Handler returns the status API for w as an embeddable http.Handler.
func Handler(basePath string, w *Watcher) http.Handler {
	return iapi.NewRouter(w.inner, basePath).Handler()
}

// NewHTTPServer starts an HTTP server exposing the status API for w.
func NewHTTPServer(addr, basePath string, w *Watcher) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, w.inner)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }
