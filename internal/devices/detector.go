// Package devices tracks connected cameras using the SDK hot-plug
// notification, falling back to polling where the SDK has none.
package devices

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/smazurov/touptek/internal/events"
	"github.com/smazurov/touptek/internal/logging"
	"github.com/smazurov/touptek/internal/metrics"
	"github.com/smazurov/touptek/pkg/toupcam"
)

// Discovery actions.
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
	ActionChanged = "changed"
)

// Enumerator lists connected cameras.
type Enumerator interface {
	Enumerate() ([]toupcam.Instance, error)
}

// EnumeratorFunc adapts a function to Enumerator.
type EnumeratorFunc func() ([]toupcam.Instance, error)

// Enumerate calls f.
func (f EnumeratorFunc) Enumerate() ([]toupcam.Instance, error) { return f() }

// EventPublisher publishes discovery events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// Options configures a Monitor.
type Options struct {
	// HotPlug registers the process-wide plug notification. A nil fn
	// unregisters it. Defaults to toupcam.HotPlug.
	HotPlug func(fn func()) error
	// Settle is how long to wait after a notification before enumerating,
	// giving the device time to finish USB setup.
	Settle time.Duration
	// USBWatcher opens a kernel USB event source, used when HotPlug is
	// unsupported. Defaults to netlink uevents on Linux.
	USBWatcher func() (USBWatcher, error)
	// PollInterval is used when neither HotPlug nor USBWatcher works.
	PollInterval time.Duration
}

// Monitor keeps the set of connected cameras current and publishes a
// DeviceDiscoveryEvent for every change.
type Monitor struct {
	source  Enumerator
	bus     EventPublisher
	opts    Options
	logger  *slog.Logger
	trigger chan struct{}

	mu      sync.Mutex
	devices map[string]toupcam.Instance
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	hooked  bool
}

// NewMonitor creates a monitor that enumerates through source.
func NewMonitor(source Enumerator, bus EventPublisher, opts Options) *Monitor {
	if opts.HotPlug == nil {
		opts.HotPlug = toupcam.HotPlug
	}
	if opts.USBWatcher == nil {
		opts.USBWatcher = openUSBWatcher
	}
	if opts.Settle <= 0 {
		opts.Settle = time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	return &Monitor{
		source:  source,
		bus:     bus,
		opts:    opts,
		logger:  logging.GetLogger("devices"),
		trigger: make(chan struct{}, 1),
		devices: make(map[string]toupcam.Instance),
	}
}

// ErrAlreadyStarted is returned by Start on a running monitor.
var ErrAlreadyStarted = errors.New("devices: monitor already started")

// Start publishes the initial device set and begins monitoring.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	if err := m.Refresh(); err != nil {
		m.logger.Warn("Failed to get initial camera list", "error", err)
	} else {
		m.logger.Info("Initialized with cameras", "count", len(m.Devices()))
	}

	polling := false
	if err := m.opts.HotPlug(m.notify); err == nil {
		m.mu.Lock()
		m.hooked = true
		m.mu.Unlock()
		m.logger.Info("Hot-plug monitoring started")
	} else if w, werr := m.opts.USBWatcher(); werr == nil {
		m.logger.Info("Hot-plug notification unavailable, watching USB uevents", "error", err)
		m.wg.Add(1)
		go m.watchUSB(ctx, w)
	} else {
		m.logger.Info("Hot-plug notification unavailable, polling", "interval", m.opts.PollInterval, "error", errors.Join(err, werr))
		polling = true
	}

	m.wg.Add(1)
	go m.run(ctx, polling)
	return nil
}

func (m *Monitor) watchUSB(ctx context.Context, w USBWatcher) {
	defer m.wg.Done()
	defer w.Close()
	if err := w.Run(ctx, m.notify); err != nil {
		m.logger.Error("USB uevent watcher failed", "error", err)
	}
}

// Stop ends monitoring and unregisters the hot-plug notification.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, hooked := m.cancel, m.hooked
	m.cancel, m.hooked = nil, false
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	if hooked {
		if err := m.opts.HotPlug(nil); err != nil {
			m.logger.Warn("Failed to unregister hot-plug notification", "error", err)
		}
	}
	cancel()
	m.wg.Wait()
}

// notify runs on the SDK's hot-plug thread; rescans are coalesced.
func (m *Monitor) notify() {
	select {
	case m.trigger <- struct{}{}:
	default:
	}
}

func (m *Monitor) run(ctx context.Context, polling bool) {
	defer m.wg.Done()
	var poll <-chan time.Time
	if polling {
		ticker := time.NewTicker(m.opts.PollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("Device monitor stopped")
			return
		case <-m.trigger:
			m.logger.Debug("Hot-plug notification")
			select {
			case <-time.After(m.opts.Settle):
			case <-ctx.Done():
				return
			}
		case <-poll:
		}
		if err := m.Refresh(); err != nil {
			m.logger.Error("Error enumerating cameras", "error", err)
		}
	}
}

// Refresh enumerates cameras and publishes the differences from the last
// known set.
func (m *Monitor) Refresh() error {
	list, err := m.source.Enumerate()
	if err != nil {
		return err
	}
	current := make(map[string]toupcam.Instance, len(list))
	for _, inst := range list {
		current[inst.ID] = inst
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().Format(time.RFC3339)
	for id, old := range m.devices {
		if _, ok := current[id]; !ok {
			delete(m.devices, id)
			m.logger.Info("Camera removed", "id", id, "name", old.DisplayName)
			m.publish(ActionRemoved, old, now)
		}
	}
	for id, inst := range current {
		old, ok := m.devices[id]
		m.devices[id] = inst
		switch {
		case !ok:
			m.logger.Info("Camera added", "id", id, "name", inst.DisplayName, "model", inst.Model.Name)
			m.publish(ActionAdded, inst, now)
		case old.DisplayName != inst.DisplayName || old.Model.Name != inst.Model.Name:
			m.logger.Info("Camera changed", "id", id, "name", inst.DisplayName)
			m.publish(ActionChanged, inst, now)
		}
	}
	metrics.SetDevicesConnected(len(m.devices))
	return nil
}

func (m *Monitor) publish(action string, inst toupcam.Instance, ts string) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(events.DeviceDiscoveryEvent{
		CameraID:    inst.ID,
		DisplayName: inst.DisplayName,
		Model:       inst.Model.Name,
		Action:      action,
		Timestamp:   ts,
	})
}

// Devices returns the known cameras sorted by id.
func (m *Monitor) Devices() []toupcam.Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]toupcam.Instance, 0, len(m.devices))
	for _, inst := range m.devices {
		out = append(out, inst)
	}
	slices.SortFunc(out, func(a, b toupcam.Instance) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Lookup returns the camera with the given id.
func (m *Monitor) Lookup(id string) (toupcam.Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.devices[id]
	return inst, ok
}
