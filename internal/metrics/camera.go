// Package metrics provides Prometheus metrics for camera capture.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toupnode",
		Subsystem: "capture",
		Name:      "frames_total",
		Help:      "Total frames pulled",
	}, []string{"camera_id"})

	bytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toupnode",
		Subsystem: "capture",
		Name:      "bytes_total",
		Help:      "Total frame bytes pulled",
	}, []string{"camera_id"})

	snapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toupnode",
		Subsystem: "capture",
		Name:      "snapshots_total",
		Help:      "Total still images saved",
	}, []string{"camera_id"})

	captureActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "toupnode",
		Subsystem: "capture",
		Name:      "active",
		Help:      "Whether a capture session is running",
	}, []string{"camera_id"})

	captureFPS = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "toupnode",
		Subsystem: "capture",
		Name:      "fps",
		Help:      "Frames pulled per second",
	}, []string{"camera_id"})

	cameraEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toupnode",
		Subsystem: "camera",
		Name:      "events_total",
		Help:      "Driver events received",
	}, []string{"camera_id", "event"})

	cameraErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toupnode",
		Subsystem: "camera",
		Name:      "errors_total",
		Help:      "Failed camera operations",
	}, []string{"camera_id", "operation"})

	cameraTemperature = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "toupnode",
		Subsystem: "camera",
		Name:      "temperature_celsius",
		Help:      "Sensor temperature",
	}, []string{"camera_id"})

	cameraExposure = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "toupnode",
		Subsystem: "camera",
		Name:      "exposure_microseconds",
		Help:      "Current exposure time",
	}, []string{"camera_id"})

	cameraGain = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "toupnode",
		Subsystem: "camera",
		Name:      "gain_percent",
		Help:      "Current analog gain",
	}, []string{"camera_id"})

	devicesConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "toupnode",
		Subsystem: "devices",
		Name:      "connected",
		Help:      "Cameras currently enumerated",
	})

	// Local cache for SSE exporter access.
	cache   = make(map[string]*CameraStats)
	cacheMu sync.RWMutex
)

// CameraStats holds current metric values for a camera.
type CameraStats struct {
	Active       bool
	Frames       uint64
	Bytes        uint64
	FPS          float64
	Temperature  float64
	ExposureTime uint32
	ExposureGain uint16
}

// RecordFrame counts one pulled frame of n bytes.
func RecordFrame(cameraID string, n int) {
	framesTotal.WithLabelValues(cameraID).Inc()
	bytesTotal.WithLabelValues(cameraID).Add(float64(n))
	updateCache(cameraID, func(s *CameraStats) {
		s.Frames++
		s.Bytes += uint64(n)
	})
}

// RecordSnapshot counts one saved still image.
func RecordSnapshot(cameraID string) {
	snapshotsTotal.WithLabelValues(cameraID).Inc()
}

// RecordEvent counts one driver event by name.
func RecordEvent(cameraID, event string) {
	cameraEvents.WithLabelValues(cameraID, event).Inc()
}

// RecordError counts one failed operation.
func RecordError(cameraID, operation string) {
	cameraErrors.WithLabelValues(cameraID, operation).Inc()
}

// SetCaptureActive marks a capture session as running or stopped. Starting
// a session resets the cached frame counters.
func SetCaptureActive(cameraID string, active bool) {
	v := 0.0
	if active {
		v = 1
	}
	captureActive.WithLabelValues(cameraID).Set(v)
	updateCache(cameraID, func(s *CameraStats) {
		if active && !s.Active {
			s.Frames, s.Bytes = 0, 0
		}
		s.Active = active
		if !active {
			s.FPS = 0
		}
	})
	if !active {
		captureFPS.WithLabelValues(cameraID).Set(0)
	}
}

// SetFPS sets the measured frame rate.
func SetFPS(cameraID string, fps float64) {
	captureFPS.WithLabelValues(cameraID).Set(fps)
	updateCache(cameraID, func(s *CameraStats) { s.FPS = fps })
}

// SetTemperature sets the sensor temperature in degrees Celsius.
func SetTemperature(cameraID string, celsius float64) {
	cameraTemperature.WithLabelValues(cameraID).Set(celsius)
	updateCache(cameraID, func(s *CameraStats) { s.Temperature = celsius })
}

// SetExposure sets the current exposure time and gain.
func SetExposure(cameraID string, us uint32, gain uint16) {
	cameraExposure.WithLabelValues(cameraID).Set(float64(us))
	cameraGain.WithLabelValues(cameraID).Set(float64(gain))
	updateCache(cameraID, func(s *CameraStats) {
		s.ExposureTime = us
		s.ExposureGain = gain
	})
}

// SetDevicesConnected sets the number of enumerated cameras.
func SetDevicesConnected(n int) {
	devicesConnected.Set(float64(n))
}

// DeleteCameraMetrics removes all metrics for a camera.
func DeleteCameraMetrics(cameraID string) {
	framesTotal.DeleteLabelValues(cameraID)
	bytesTotal.DeleteLabelValues(cameraID)
	snapshotsTotal.DeleteLabelValues(cameraID)
	captureActive.DeleteLabelValues(cameraID)
	captureFPS.DeleteLabelValues(cameraID)
	cameraEvents.DeletePartialMatch(prometheus.Labels{"camera_id": cameraID})
	cameraErrors.DeletePartialMatch(prometheus.Labels{"camera_id": cameraID})
	cameraTemperature.DeleteLabelValues(cameraID)
	cameraExposure.DeleteLabelValues(cameraID)
	cameraGain.DeleteLabelValues(cameraID)

	cacheMu.Lock()
	delete(cache, cameraID)
	cacheMu.Unlock()
}

// GetCameraStats returns current metric values for a camera.
func GetCameraStats(cameraID string) *CameraStats {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	if s, ok := cache[cameraID]; ok {
		dup := *s
		return &dup
	}
	return nil
}

// GetAllCameraStats returns metrics for all known cameras.
func GetAllCameraStats() map[string]*CameraStats {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	result := make(map[string]*CameraStats, len(cache))
	for id, s := range cache {
		dup := *s
		result[id] = &dup
	}
	return result
}

func updateCache(cameraID string, update func(*CameraStats)) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	s, ok := cache[cameraID]
	if !ok {
		s = &CameraStats{}
		cache[cameraID] = s
	}
	update(s)
}
