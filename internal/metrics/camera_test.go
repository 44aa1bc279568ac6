package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCameraStatsCache(t *testing.T) {
	id := "test-cam-1"
	DeleteCameraMetrics(id)

	if s := GetCameraStats(id); s != nil {
		t.Error("expected nil for unknown camera")
	}

	SetCaptureActive(id, true)
	RecordFrame(id, 100)
	RecordFrame(id, 50)
	SetFPS(id, 29.5)
	SetTemperature(id, 24.5)
	SetExposure(id, 10000, 150)

	s := GetCameraStats(id)
	if s == nil {
		t.Fatal("expected non-nil stats")
	}
	if !s.Active {
		t.Error("Active = false, want true")
	}
	if s.Frames != 2 || s.Bytes != 150 {
		t.Errorf("Frames, Bytes = %d, %d, want 2, 150", s.Frames, s.Bytes)
	}
	if s.FPS != 29.5 {
		t.Errorf("FPS = %v, want 29.5", s.FPS)
	}
	if s.Temperature != 24.5 {
		t.Errorf("Temperature = %v, want 24.5", s.Temperature)
	}
	if s.ExposureTime != 10000 || s.ExposureGain != 150 {
		t.Errorf("exposure = %d/%d, want 10000/150", s.ExposureTime, s.ExposureGain)
	}

	s.Frames = 999
	if again := GetCameraStats(id); again.Frames != 2 {
		t.Errorf("cache was modified, Frames = %d", again.Frames)
	}

	DeleteCameraMetrics(id)
	if GetCameraStats(id) != nil {
		t.Error("expected nil after delete")
	}
}

func TestSetCaptureActiveResetsCounters(t *testing.T) {
	id := "test-cam-reset"
	DeleteCameraMetrics(id)
	defer DeleteCameraMetrics(id)

	SetCaptureActive(id, true)
	RecordFrame(id, 10)
	SetFPS(id, 10)
	SetCaptureActive(id, false)

	s := GetCameraStats(id)
	if s.Active || s.FPS != 0 {
		t.Errorf("after stop: Active=%v FPS=%v", s.Active, s.FPS)
	}
	if s.Frames != 1 {
		t.Errorf("stop should keep frame count, got %d", s.Frames)
	}

	SetCaptureActive(id, true)
	if s := GetCameraStats(id); s.Frames != 0 || s.Bytes != 0 {
		t.Errorf("restart should reset counters, got %d frames", s.Frames)
	}
	if v := testutil.ToFloat64(captureActive.WithLabelValues(id)); v != 1 {
		t.Errorf("capture_active = %v, want 1", v)
	}
}

func TestPrometheusCounters(t *testing.T) {
	id := "test-cam-prom"
	DeleteCameraMetrics(id)
	defer DeleteCameraMetrics(id)

	RecordFrame(id, 640*480)
	RecordEvent(id, "image")
	RecordEvent(id, "image")
	RecordError(id, "PullImage")
	RecordSnapshot(id)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"frames", testutil.ToFloat64(framesTotal.WithLabelValues(id)), 1},
		{"bytes", testutil.ToFloat64(bytesTotal.WithLabelValues(id)), 640 * 480},
		{"events", testutil.ToFloat64(cameraEvents.WithLabelValues(id, "image")), 2},
		{"errors", testutil.ToFloat64(cameraErrors.WithLabelValues(id, "PullImage")), 1},
		{"snapshots", testutil.ToFloat64(snapshotsTotal.WithLabelValues(id)), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestSetDevicesConnected(t *testing.T) {
	SetDevicesConnected(3)
	if v := testutil.ToFloat64(devicesConnected); v != 3 {
		t.Errorf("devices_connected = %v, want 3", v)
	}
	SetDevicesConnected(0)
}

func TestGetAllCameraStats(t *testing.T) {
	DeleteCameraMetrics("cam-a")
	DeleteCameraMetrics("cam-b")
	defer DeleteCameraMetrics("cam-a")
	defer DeleteCameraMetrics("cam-b")

	SetFPS("cam-a", 30)
	SetFPS("cam-b", 15)

	all := GetAllCameraStats()
	if all["cam-a"] == nil || all["cam-a"].FPS != 30 {
		t.Errorf("cam-a = %+v", all["cam-a"])
	}
	if all["cam-b"] == nil || all["cam-b"].FPS != 15 {
		t.Errorf("cam-b = %+v", all["cam-b"])
	}
}

func TestCacheConcurrency(_ *testing.T) {
	id := "test-cam-concurrent"
	DeleteCameraMetrics(id)
	defer DeleteCameraMetrics(id)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 100 {
				RecordFrame(id, 1)
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				_ = GetCameraStats(id)
				_ = GetAllCameraStats()
			}
		}()
	}
	wg.Wait()
}
