package api

import (
	"log/slog"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/touptek/internal/logging"
)

// Paths polled by viewers; logged at debug so they do not drown out the rest.
var quietPaths = map[string]bool{
	"/api/camera/frame": true,
	"/metrics":          true,
}

// HTTPLoggingMiddleware logs each request once it completes. Event streams
// are also logged when they open since they may stay connected for hours.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	logger := logging.GetLogger("http")

	path := ctx.URL().Path
	attrs := []slog.Attr{
		slog.String("method", ctx.Method()),
		slog.String("path", path),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}
	if q := ctx.URL().RawQuery; q != "" && !strings.Contains(q, "auth=") {
		attrs = append(attrs, slog.String("query", q))
	}

	if path == "/api/events" {
		logger.LogAttrs(ctx.Context(), slog.LevelInfo, "Event stream opened", attrs...)
	}

	next(ctx)

	status := ctx.Status()
	attrs = append(attrs,
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	)

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	case quietPaths[path]:
		level = slog.LevelDebug
	}
	logger.LogAttrs(ctx.Context(), level, "HTTP request completed", attrs...)
}
