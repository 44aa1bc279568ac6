package exporters

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/smazurov/touptek/internal/events"
	"github.com/smazurov/touptek/internal/metrics"
)

// EventPublisher interface for publishing events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// SSEExporter publishes camera stats of active sessions as
// CameraMetricsEvent for SSE clients.
type SSEExporter struct {
	eventBus EventPublisher
	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSSEExporter creates a new SSE exporter.
func NewSSEExporter(eventBus EventPublisher) *SSEExporter {
	return &SSEExporter{
		eventBus: eventBus,
		interval: 1 * time.Second,
	}
}

// Start begins the SSE export loop.
func (s *SSEExporter) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the SSE exporter and waits for the goroutine to finish.
func (s *SSEExporter) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *SSEExporter) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishMetrics()
		}
	}
}

func (s *SSEExporter) publishMetrics() {
	for id, st := range metrics.GetAllCameraStats() {
		if !st.Active {
			continue
		}
		s.eventBus.Publish(events.CameraMetricsEvent{
			CameraID:     id,
			FPS:          strconv.FormatFloat(st.FPS, 'f', 2, 64),
			Frames:       strconv.FormatUint(st.Frames, 10),
			Temperature:  st.Temperature,
			ExposureTime: st.ExposureTime,
			ExposureGain: st.ExposureGain,
		})
	}
}
