// Package systemd reports service state to systemd through sd_notify.
package systemd

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// notifyFunc matches daemon.SdNotify.
type notifyFunc func(unsetEnvironment bool, state string) (bool, error)

// Notifier sends readiness, status and watchdog pings. Outside systemd
// every call is a no-op.
type Notifier struct {
	notify   notifyFunc
	interval func(unsetEnvironment bool) (time.Duration, error)
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewNotifier creates a Notifier using the NOTIFY_SOCKET of the process.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{
		notify:   daemon.SdNotify,
		interval: daemon.SdWatchdogEnabled,
		logger:   logger,
	}
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(false, state)
	if err != nil {
		n.logger.Warn("sd_notify failed", "state", state, "error", err)
		return
	}
	if sent {
		n.logger.Debug("sd_notify", "state", state)
	}
}

// Ready tells systemd start-up is complete.
func (n *Notifier) Ready() {
	n.send(daemon.SdNotifyReady)
}

// Stopping tells systemd shutdown has begun and stops the watchdog.
func (n *Notifier) Stopping() {
	n.StopWatchdog()
	n.send(daemon.SdNotifyStopping)
}

// Status sets the free-form status line shown by systemctl status.
func (n *Notifier) Status(msg string) {
	n.send("STATUS=" + msg)
}

// StartWatchdog pings the watchdog at half the configured interval until
// ctx is done. It does nothing when WatchdogSec is unset.
func (n *Notifier) StartWatchdog(ctx context.Context) bool {
	every, err := n.interval(false)
	if err != nil || every <= 0 {
		return false
	}
	every /= 2

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		return true
	}
	ctx, n.cancel = context.WithCancel(ctx)
	n.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n.send(daemon.SdNotifyWatchdog)
			}
		}
	}(n.done)
	n.logger.Info("Systemd watchdog enabled", "interval", every)
	return true
}

// StopWatchdog stops the watchdog loop, if running.
func (n *Notifier) StopWatchdog() {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel, n.done = nil, nil
	n.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}
