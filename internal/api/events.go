package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/touptek/internal/events"
)

// sseEventTypes maps SSE event names to their payloads.
var sseEventTypes = map[string]any{
	"device-discovery":    events.DeviceDiscoveryEvent{},
	"capture-state":       events.CaptureStateChangedEvent{},
	"frame":               events.FrameEvent{},
	"camera-notification": events.CameraNotificationEvent{},
	"camera-error":        events.CameraErrorEvent{},
	"snapshot-saved":      events.SnapshotSavedEvent{},
	"camera-metrics":      events.CameraMetricsEvent{},
}

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of device changes, capture state, frames, notifications and metrics. The current capture state is sent first.",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, sseEventTypes, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 32)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.DeviceDiscoveryEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.CaptureStateChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.FrameEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.CameraNotificationEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.CameraErrorEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.SnapshotSavedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.CameraMetricsEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		if initial, ok := s.currentState(); ok {
			if err := send.Data(initial); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}

// currentState reports the capture state of the open camera.
func (s *Server) currentState() (events.CaptureStateChangedEvent, bool) {
	if s.options.Camera == nil || s.options.Capture == nil {
		return events.CaptureStateChangedEvent{}, false
	}
	ev := events.CaptureStateChangedEvent{
		CameraID:  s.options.Camera.ID(),
		State:     events.StateIdle,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if s.options.Capture.Running() {
		ev.State = events.StateCapturing
		ev.SessionID = s.options.Capture.Session()
	}
	return ev, true
}
