package supervisor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/loykin/twwatch/internal/history"
)

// recorder is a slog.Handler that keeps every record it handles.
type recorder struct {
	mu   sync.Mutex
	recs []slog.Record
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	r.recs = append(r.recs, rec.Clone())
	r.mu.Unlock()
	return nil
}

func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recorder) WithGroup(string) slog.Handler      { return r }

func (r *recorder) records() []slog.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]slog.Record(nil), r.recs...)
}

// find returns the first record with the given level and message.
func (r *recorder) find(level slog.Level, msg string) (slog.Record, bool) {
	for _, rec := range r.records() {
		if rec.Level == level && rec.Message == msg {
			return rec, true
		}
	}
	return slog.Record{}, false
}

func (r *recorder) has(level slog.Level, msg string) bool {
	_, ok := r.find(level, msg)
	return ok
}

func attr(rec slog.Record, key string) string {
	var v string
	rec.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			v = a.Value.String()
			return false
		}
		return true
	})
	return v
}

func newRecordingSupervisor() (*Supervisor, *recorder) {
	rec := &recorder{}
	return New(slog.New(rec)), rec
}

// memSink collects history events.
type memSink struct {
	mu     sync.Mutex
	events []history.Event
}

func (m *memSink) Send(_ context.Context, e history.Event) error {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
	return nil
}

func (m *memSink) types() []history.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]history.EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

const waitFor = 5 * time.Second
const tick = 20 * time.Millisecond
