package logging

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

// SyslogIdentifier tags every journal entry written by this process.
const SyslogIdentifier = "toupnode"

// journalSend is replaced in tests.
var journalSend = journal.Send

// JournalHandler is a slog.Handler that writes to the systemd journal.
// Attribute keys become upper-case journal fields, groups joined by "_".
type JournalHandler struct {
	level  slog.Leveler
	fields map[string]string // resolved WithAttrs fields
	groups []string
}

// NewJournalHandler creates a journal handler filtering at level.
func NewJournalHandler(level slog.Leveler) *JournalHandler {
	return &JournalHandler{level: level}
}

func (h *JournalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	fields := maps.Clone(h.fields)
	if fields == nil {
		fields = make(map[string]string)
	}
	fields["SYSLOG_IDENTIFIER"] = SyslogIdentifier
	r.Attrs(func(a slog.Attr) bool {
		journalField(fields, a, h.groups)
		return true
	})
	return journalSend(r.Message, journalPriority(r.Level), fields)
}

func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := maps.Clone(h.fields)
	if fields == nil {
		fields = make(map[string]string, len(attrs))
	}
	for _, a := range attrs {
		journalField(fields, a, h.groups)
	}
	return &JournalHandler{level: h.level, fields: fields, groups: h.groups}
}

func (h *JournalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &JournalHandler{
		level:  h.level,
		fields: h.fields,
		groups: append(slices.Clone(h.groups), name),
	}
}

func journalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

func journalField(fields map[string]string, a slog.Attr, groups []string) {
	if a.Equal(slog.Attr{}) {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(slices.Clone(groups), a.Key)
		}
		for _, ga := range v.Group() {
			journalField(fields, ga, sub)
		}
		return
	}

	key := strings.ToUpper(strings.Join(append(slices.Clone(groups), a.Key), "_"))
	switch v.Kind() {
	case slog.KindInt64:
		fields[key] = strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		fields[key] = strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		fields[key] = strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindBool:
		fields[key] = strconv.FormatBool(v.Bool())
	case slog.KindTime:
		fields[key] = v.Time().Format(time.RFC3339Nano)
	default:
		fields[key] = v.String()
	}
}

// IsJournalAvailable reports whether journald is accepting entries.
func IsJournalAvailable() bool {
	return journal.Enabled()
}
