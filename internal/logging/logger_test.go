package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

func TestModuleLevelOverride(t *testing.T) {
	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"capture": "debug",
			"api":     "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"capture", true, true, true},
		{"api", false, false, true},
		{"devices", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			h := GetLogger(tt.module).Handler()
			ctx := context.Background()
			if got := h.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := h.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := h.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("Warn enabled = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestLoggerCreatedBeforeInitialize(t *testing.T) {
	Initialize(Config{Level: "info"})
	logger := GetLogger("early")
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug enabled before reconfiguration")
	}

	Initialize(Config{Level: "info", Modules: map[string]string{"early": "debug"}})
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("existing logger did not pick up module level")
	}
}

func TestSetLevel(t *testing.T) {
	Initialize(Config{Level: "info"})
	logger := GetLogger("runtime")

	if !SetLevel("runtime", "error") {
		t.Fatal("SetLevel returned false")
	}
	if logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn still enabled after SetLevel(error)")
	}
	if SetLevel("runtime", "verbose") {
		t.Error("unknown level accepted")
	}
	if SetLevel("never-created", "debug") {
		t.Error("unknown module accepted")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"Error", slog.LevelError, true},
		{"", 0, false},
		{"trace", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHistoryRing(t *testing.T) {
	h := NewHistory(3)
	for i, msg := range []string{"a", "b", "c", "d", "e"} {
		h.Add(Entry{Message: msg, Time: time.Unix(int64(i), 0)})
	}
	got := h.Recent(0)
	if len(got) != 3 || got[0].Message != "c" || got[2].Message != "e" {
		t.Errorf("Recent(0) = %v", got)
	}
	if last := h.Recent(1); len(last) != 1 || last[0].Message != "e" {
		t.Errorf("Recent(1) = %v", last)
	}
	if empty := NewHistory(4).Recent(10); len(empty) != 0 {
		t.Errorf("empty history = %v", empty)
	}
}

func TestHistoryHandler(t *testing.T) {
	hist := NewHistory(10)
	logger := slog.New(NewHistoryHandler(hist, slog.LevelInfo)).With("module", "capture")

	logger.Debug("dropped")
	logger.Info("frame", "bits", 24, slog.Group("res", "w", 640, "h", 480), "error", errors.New("boom"))

	got := hist.Recent(0)
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
	e := got[0]
	if e.Module != "capture" || e.Level != "info" || e.Message != "frame" {
		t.Errorf("entry = %+v", e)
	}
	if e.Attributes["bits"] != int64(24) {
		t.Errorf("bits = %#v", e.Attributes["bits"])
	}
	if e.Attributes["res.w"] != int64(640) {
		t.Errorf("res.w = %#v", e.Attributes["res.w"])
	}
	if e.Attributes["error"] != "boom" {
		t.Errorf("error = %#v", e.Attributes["error"])
	}
}

func TestJournalHandlerFields(t *testing.T) {
	var gotMsg string
	var gotPri journal.Priority
	var gotFields map[string]string
	orig := journalSend
	journalSend = func(msg string, pri journal.Priority, vars map[string]string) error {
		gotMsg, gotPri, gotFields = msg, pri, vars
		return nil
	}
	t.Cleanup(func() { journalSend = orig })

	logger := slog.New(NewJournalHandler(slog.LevelDebug)).With("module", "devices")
	logger.WithGroup("camera").Warn("removed", "id", "tp-1", "count", 2)

	if gotMsg != "removed" || gotPri != journal.PriWarning {
		t.Errorf("message = %q priority = %d", gotMsg, gotPri)
	}
	want := map[string]string{
		"SYSLOG_IDENTIFIER": SyslogIdentifier,
		"MODULE":            "devices",
		"CAMERA_ID":         "tp-1",
		"CAMERA_COUNT":      "2",
	}
	for k, v := range want {
		if gotFields[k] != v {
			t.Errorf("field %s = %q, want %q", k, gotFields[k], v)
		}
	}
}

func TestMultiHandlerFanOut(t *testing.T) {
	a, b := NewHistory(4), NewHistory(4)
	h := NewMultiHandler(NewHistoryHandler(a, slog.LevelInfo), NewHistoryHandler(b, slog.LevelError))
	logger := slog.New(h)

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("multi handler should accept info")
	}
	logger.Info("one")
	logger.Error("two")

	if n := len(a.Recent(0)); n != 2 {
		t.Errorf("info handler got %d entries, want 2", n)
	}
	if n := len(b.Recent(0)); n != 1 {
		t.Errorf("error handler got %d entries, want 1", n)
	}
}
