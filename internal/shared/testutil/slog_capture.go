// Package testutil provides test-only helpers shared across packages.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log line with its resolved attributes.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// logStore collects records from a handler and all handlers derived from
// it via WithAttrs or WithGroup.
type logStore struct {
	mu      sync.Mutex
	records []LogRecord
	t       *testing.T
}

// CaptureHandler is a slog.Handler that keeps every record in memory.
// Handlers returned by WithAttrs share the same store, so records logged
// through a derived logger (logger.With(...)) are still captured and
// carry the bound attributes.
type CaptureHandler struct {
	store *logStore
	attrs []slog.Attr
	group string
}

// NewCaptureHandler returns a handler capturing all levels. When t is
// non-nil each record is echoed through t.Logf for failure diagnosis.
func NewCaptureHandler(t *testing.T) *CaptureHandler {
	return &CaptureHandler{store: &logStore{t: t}}
}

// NewTestLogger returns a logger wired to a fresh capture handler.
func NewTestLogger(t *testing.T) (*slog.Logger, *CaptureHandler) {
	h := NewCaptureHandler(t)
	return slog.New(h), h
}

func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		attrs[h.key(a.Key)] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, LogRecord{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	t := h.store.t
	h.store.mu.Unlock()

	if t != nil {
		t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CaptureHandler{store: h.store, attrs: merged, group: h.group}
}

func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &CaptureHandler{store: h.store, attrs: h.attrs, group: group}
}

func (h *CaptureHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// Records returns a copy of everything captured so far.
func (h *CaptureHandler) Records() []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	out := make([]LogRecord, len(h.store.records))
	copy(out, h.store.records)
	return out
}

// ByLevel returns captured records at exactly the given level.
func (h *CaptureHandler) ByLevel(level slog.Level) []LogRecord {
	var filtered []LogRecord
	for _, r := range h.Records() {
		if r.Level == level {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ContainsMessage reports whether any captured message contains substr.
func (h *CaptureHandler) ContainsMessage(substr string) bool {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any captured record carries key=value.
func (h *CaptureHandler) ContainsAttr(key string, value any) bool {
	for _, r := range h.Records() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// Count returns the number of captured records.
func (h *CaptureHandler) Count() int {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return len(h.store.records)
}

// AssertLogContains fails the test when no record at the given level
// contains the message substring.
func AssertLogContains(t *testing.T, h *CaptureHandler, level slog.Level, message string) {
	t.Helper()

	for _, r := range h.ByLevel(level) {
		if strings.Contains(r.Message, message) {
			return
		}
	}

	t.Errorf("no %s log containing %q", level, message)
	for _, r := range h.ByLevel(level) {
		t.Logf("  captured: %s", r.Message)
	}
}

// AssertNoErrors fails the test when any error-level record was captured.
func AssertNoErrors(t *testing.T, h *CaptureHandler) {
	t.Helper()

	for _, r := range h.ByLevel(slog.LevelError) {
		t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
	}
}
