package led

import (
	"log/slog"
	"os"
	"testing"
)

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if _, ok := New(nil, logger).(*noop); !ok {
		t.Error("New(nil) should return the no-op controller")
	}

	ctrl := New(&fakeSetter{}, logger)
	if _, ok := ctrl.(*camera); !ok {
		t.Fatalf("New(setter) = %T, want *camera", ctrl)
	}
	if got := ctrl.Available(); len(got) != 1 || got[0] != StatusLED {
		t.Errorf("Available() = %v", got)
	}
}

func TestNewNilLogger(t *testing.T) {
	if New(nil, nil) == nil {
		t.Fatal("New() returned nil")
	}
}
