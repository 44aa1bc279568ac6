package logging

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"
)

// swapHandler forwards to a handler that Initialize can replace after
// loggers have been handed out.
type swapHandler struct {
	base *atomic.Pointer[slog.Handler]
	ops  []func(slog.Handler) slog.Handler
}

func (s *swapHandler) swap(h slog.Handler) {
	s.base.Store(&h)
}

func (s *swapHandler) current() slog.Handler {
	h := *s.base.Load()
	for _, op := range s.ops {
		h = op(h)
	}
	return h
}

func (s *swapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.current().Enabled(ctx, level)
}

func (s *swapHandler) Handle(ctx context.Context, r slog.Record) error {
	return s.current().Handle(ctx, r)
}

func (s *swapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return s.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (s *swapHandler) WithGroup(name string) slog.Handler {
	return s.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (s *swapHandler) with(op func(slog.Handler) slog.Handler) *swapHandler {
	return &swapHandler{base: s.base, ops: append(slices.Clone(s.ops), op)}
}
