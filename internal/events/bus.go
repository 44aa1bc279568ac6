package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers of its concrete type.
// Usage: bus.Publish(FrameEvent{...})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case DeviceDiscoveryEvent:
		event.Publish(b.dispatcher, e)
	case CaptureStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case FrameEvent:
		event.Publish(b.dispatcher, e)
	case CameraNotificationEvent:
		event.Publish(b.dispatcher, e)
	case CameraErrorEvent:
		event.Publish(b.dispatcher, e)
	case SnapshotSavedEvent:
		event.Publish(b.dispatcher, e)
	case CameraMetricsEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler for the event type it accepts and returns an
// unsubscribe function. Unknown handler types get a no-op unsubscribe.
// Usage: unsub := bus.Subscribe(func(e FrameEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(DeviceDiscoveryEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CaptureStateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(FrameEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraNotificationEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraErrorEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(SnapshotSavedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(CameraMetricsEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
