package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stream label values for OutputLine.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	launches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twwatch",
			Subsystem: "watch",
			Name:      "launches_total",
			Help:      "Number of watch processes launched.",
		}, []string{"input"},
	)
	launchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twwatch",
			Subsystem: "watch",
			Name:      "launch_failures_total",
			Help:      "Number of watch processes that failed to launch.",
		}, []string{"input"},
	)
	exits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twwatch",
			Subsystem: "watch",
			Name:      "exits_total",
			Help:      "Number of watch processes that exited without being asked to.",
		}, []string{"input"},
	)
	terminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twwatch",
			Subsystem: "watch",
			Name:      "terminations_total",
			Help:      "Number of watch processes terminated on shutdown.",
		}, []string{"input"},
	)
	outputLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twwatch",
			Subsystem: "watch",
			Name:      "output_lines_total",
			Help:      "Non-blank output lines received from watch processes.",
		}, []string{"input", "stream"},
	)
	running = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twwatch",
			Subsystem: "watch",
			Name:      "running",
			Help:      "1 while the watch process for an input is running.",
		}, []string{"input"},
	)
	serviceState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twwatch",
			Subsystem: "service",
			Name:      "state",
			Help:      "Current watcher service state (1 = active state, 0 = inactive).",
		}, []string{"state"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{launches, launchFailures, exits, terminations, outputLines, running, serviceState}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncLaunch(input string) {
	if regOK.Load() {
		launches.WithLabelValues(input).Inc()
		running.WithLabelValues(input).Set(1)
	}
}

func IncLaunchFailure(input string) {
	if regOK.Load() {
		launchFailures.WithLabelValues(input).Inc()
	}
}

// ObserveExit records the end of a watch process; requested marks a shutdown kill.
func ObserveExit(input string, requested bool) {
	if regOK.Load() {
		if requested {
			terminations.WithLabelValues(input).Inc()
		} else {
			exits.WithLabelValues(input).Inc()
		}
		running.WithLabelValues(input).Set(0)
	}
}

func IncOutputLine(input, stream string) {
	if regOK.Load() {
		outputLines.WithLabelValues(input, stream).Inc()
	}
}

// SetServiceState marks state as the active service state among all.
func SetServiceState(state string, all []string) {
	if regOK.Load() {
		for _, s := range all {
			v := 0.0
			if s == state {
				v = 1
			}
			serviceState.WithLabelValues(s).Set(v)
		}
	}
}
