package logging

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Entry is one log record kept in History.
type Entry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// History is a fixed-size ring of recent log entries.
type History struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewHistory creates a history holding up to size entries.
func NewHistory(size int) *History {
	return &History{entries: make([]Entry, size)}
}

// Add appends e, overwriting the oldest entry when full.
func (h *History) Add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = e
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

// Recent returns up to n entries, oldest first. n <= 0 returns all.
func (h *History) Recent(n int) []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []Entry
	if h.full {
		out = append(slices.Clone(h.entries[h.next:]), h.entries[:h.next]...)
	} else {
		out = slices.Clone(h.entries[:h.next])
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// HistoryHandler is a slog.Handler that records into a History.
type HistoryHandler struct {
	history *History
	level   slog.Leveler
	module  string
	attrs   map[string]any // resolved WithAttrs attributes
	groups  []string
}

func NewHistoryHandler(h *History, level slog.Leveler) *HistoryHandler {
	return &HistoryHandler{history: h, level: level}
}

func (h *HistoryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *HistoryHandler) Handle(_ context.Context, r slog.Record) error {
	e := Entry{
		Time:       r.Time,
		Level:      strings.ToLower(r.Level.String()),
		Module:     h.module,
		Message:    r.Message,
		Attributes: maps.Clone(h.attrs),
	}
	if e.Module == "" {
		e.Module = "main"
	}
	r.Attrs(func(a slog.Attr) bool {
		if e.Attributes == nil {
			e.Attributes = make(map[string]any)
		}
		flatten(e.Attributes, h.groups, a)
		return true
	})
	h.history.Add(e)
	return nil
}

func (h *HistoryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &HistoryHandler{
		history: h.history,
		level:   h.level,
		module:  h.module,
		attrs:   maps.Clone(h.attrs),
		groups:  h.groups,
	}
	for _, a := range attrs {
		if a.Key == "module" && len(h.groups) == 0 {
			next.module = a.Value.String()
			continue
		}
		if next.attrs == nil {
			next.attrs = make(map[string]any)
		}
		flatten(next.attrs, h.groups, a)
	}
	return next
}

func (h *HistoryHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &HistoryHandler{
		history: h.history,
		level:   h.level,
		module:  h.module,
		attrs:   h.attrs,
		groups:  append(slices.Clone(h.groups), name),
	}
}

// flatten stores a with a dotted key for its groups.
func flatten(dst map[string]any, groups []string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		sub := append(slices.Clone(groups), a.Key)
		for _, ga := range v.Group() {
			flatten(dst, sub, ga)
		}
		return
	}
	key := strings.Join(append(slices.Clone(groups), a.Key), ".")
	switch v.Kind() {
	case slog.KindDuration:
		dst[key] = v.Duration().String()
	case slog.KindTime:
		dst[key] = v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			dst[key] = err.Error()
			return
		}
		dst[key] = v.Any()
	default:
		dst[key] = v.Any()
	}
}
