package led

import (
	"log/slog"
	"sync"

	"github.com/smazurov/touptek/internal/events"
)

// Manager subscribes to capture state events and drives the status LED:
// blinking while capturing, solid when idle, fast blinking after a failure.
type Manager struct {
	controller  Controller
	eventBus    *events.Bus
	unsubscribe func()
	logger      *slog.Logger
	states      map[string]string // cameraID -> capture state
	statesMu    sync.Mutex
}

// NewManager creates a new LED manager that reacts to capture state changes
func NewManager(controller Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		logger:     logger,
		states:     make(map[string]string),
	}
}

// Start begins listening for capture state events
func (m *Manager) Start() {
	m.unsubscribe = m.eventBus.Subscribe(func(e events.CaptureStateChangedEvent) {
		m.handleEvent(e)
	})
	m.logger.Info("LED manager started")
}

// Stop unsubscribes from events
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.logger.Info("LED manager stopped")
}

func (m *Manager) handleEvent(e events.CaptureStateChangedEvent) {
	m.statesMu.Lock()
	defer m.statesMu.Unlock()

	m.states[e.CameraID] = e.State
	m.logger.Debug("Capture state changed", "camera_id", e.CameraID, "state", e.State)

	pattern := m.pattern()
	if err := m.controller.Set(StatusLED, true, pattern); err != nil {
		m.logger.Warn("Failed to set status LED", "pattern", pattern, "error", err)
	}
}

// pattern aggregates camera states; a failure anywhere wins over capturing.
func (m *Manager) pattern() string {
	capturing := false
	for _, state := range m.states {
		switch state {
		case events.StateFailed:
			return "fast-blink"
		case events.StateCapturing:
			capturing = true
		}
	}
	if capturing {
		return "blink"
	}
	return "solid"
}

// GetController returns the underlying LED controller for direct API access
func (m *Manager) GetController() Controller {
	return m.controller
}
