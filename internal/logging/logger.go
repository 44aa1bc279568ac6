package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

const historySize = 500

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

var (
	mu        sync.RWMutex
	config    = Config{Level: "info", Format: "text"}
	levels    = make(map[string]*slog.LevelVar)
	loggers   = make(map[string]*swapHandler)
	rootLevel = new(slog.LevelVar)
	history   = NewHistory(historySize)
)

// Initialize applies config to all existing and future module loggers and
// installs the default slog logger.
func Initialize(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	config = cfg
	rootLevel.Set(parseLevelOr(cfg.Level, slog.LevelInfo))
	for module, lv := range levels {
		lv.Set(moduleLevel(module))
		loggers[module].swap(newHandler(cfg.Format, lv))
	}
	slog.SetDefault(slog.New(newHandler(cfg.Format, rootLevel)))
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	mu.RLock()
	h, ok := loggers[module]
	mu.RUnlock()
	if ok {
		return slog.New(h).With("module", module)
	}

	mu.Lock()
	defer mu.Unlock()
	if h, ok := loggers[module]; ok {
		return slog.New(h).With("module", module)
	}

	lv := new(slog.LevelVar)
	lv.Set(moduleLevel(module))
	h = &swapHandler{base: new(atomic.Pointer[slog.Handler])}
	h.swap(newHandler(config.Format, lv))
	levels[module] = lv
	loggers[module] = h
	return slog.New(h).With("module", module)
}

// SetLevel changes the level of one module at runtime. An empty module sets
// the global level.
func SetLevel(module, level string) bool {
	l, ok := parseLevel(level)
	if !ok {
		return false
	}
	mu.Lock()
	defer mu.Unlock()
	if module == "" {
		rootLevel.Set(l)
		return true
	}
	lv, exists := levels[module]
	if !exists {
		return false
	}
	lv.Set(l)
	return true
}

// GetHistory returns the in-memory log history.
func GetHistory() *History {
	return history
}

func moduleLevel(module string) slog.Level {
	if s, ok := config.Modules[module]; ok {
		if l, ok := parseLevel(s); ok {
			return l
		}
	}
	return parseLevelOr(config.Level, slog.LevelInfo)
}

// newHandler fans out to stdout, the journal when available, and history.
func newHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if isStdoutAvailable() {
		if format == "json" {
			handlers = append(handlers, slog.NewJSONHandler(os.Stdout, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(os.Stdout, opts))
		}
	}
	if IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	handlers = append(handlers, NewHistoryHandler(history, level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return NewMultiHandler(handlers...)
}

// isStdoutAvailable reports whether stdout is a terminal, pipe, socket or file.
func isStdoutAvailable() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&(os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0 || mode.IsRegular()
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

func parseLevelOr(level string, def slog.Level) slog.Level {
	if l, ok := parseLevel(level); ok {
		return l
	}
	return def
}
