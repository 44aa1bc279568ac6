// Package collectors polls camera telemetry into the metrics package.
package collectors

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/smazurov/touptek/internal/logging"
	"github.com/smazurov/touptek/internal/metrics"
)

// Telemetry is the subset of a camera the collector reads.
type Telemetry interface {
	ID() string
	Temperature() (int16, error)
	ExposureTime() (uint32, error)
	ExposureGain() (uint16, error)
}

// CameraCollector samples temperature and exposure and derives the frame
// rate from the frame counter.
type CameraCollector struct {
	logger   *slog.Logger
	camera   Telemetry
	interval time.Duration
	now      func() time.Time
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	lastFrames uint64
	lastTime   time.Time
	noTemp     bool
}

// NewCameraCollector creates a collector for cam.
func NewCameraCollector(cam Telemetry, interval time.Duration) *CameraCollector {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &CameraCollector{
		logger:   logging.GetLogger("metrics"),
		camera:   cam,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins collecting in the background.
func (c *CameraCollector) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.run(ctx)
}

// Stop stops the collector and waits for it to finish.
func (c *CameraCollector) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

func (c *CameraCollector) run(ctx context.Context) {
	defer c.wg.Done()
	c.logger.Debug("Starting camera metrics collection", "camera_id", c.camera.ID(), "interval", c.interval)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

func (c *CameraCollector) collect() {
	id := c.camera.ID()

	// Cameras without a sensor thermometer report E_NOTIMPL; stop asking.
	if !c.noTemp {
		t, err := c.camera.Temperature()
		if err != nil {
			c.noTemp = true
			c.logger.Debug("Temperature unavailable", "camera_id", id, "error", err)
		} else {
			metrics.SetTemperature(id, float64(t)/10)
		}
	}

	us, err := c.camera.ExposureTime()
	if err != nil {
		c.logger.Warn("Failed to read exposure time", "camera_id", id, "error", err)
		return
	}
	gain, err := c.camera.ExposureGain()
	if err != nil {
		c.logger.Warn("Failed to read exposure gain", "camera_id", id, "error", err)
		return
	}
	metrics.SetExposure(id, us, gain)

	c.updateFPS(id)
}

func (c *CameraCollector) updateFPS(id string) {
	now := c.now()
	stats := metrics.GetCameraStats(id)
	if stats == nil || !stats.Active {
		c.lastFrames, c.lastTime = 0, now
		return
	}
	if c.lastTime.IsZero() || stats.Frames < c.lastFrames {
		c.lastFrames, c.lastTime = stats.Frames, now
		return
	}
	if elapsed := now.Sub(c.lastTime).Seconds(); elapsed > 0 {
		metrics.SetFPS(id, float64(stats.Frames-c.lastFrames)/elapsed)
	}
	c.lastFrames, c.lastTime = stats.Frames, now
}
