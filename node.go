package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/smazurov/touptek/internal/api"
	"github.com/smazurov/touptek/internal/capture"
	"github.com/smazurov/touptek/internal/config"
	"github.com/smazurov/touptek/internal/devices"
	"github.com/smazurov/touptek/internal/events"
	"github.com/smazurov/touptek/internal/led"
	"github.com/smazurov/touptek/internal/logging"
	"github.com/smazurov/touptek/internal/metrics/collectors"
	"github.com/smazurov/touptek/internal/metrics/exporters"
	"github.com/smazurov/touptek/internal/systemd"
	"github.com/smazurov/touptek/pkg/toupcam"
)

// node is the running server: one optional camera plus discovery, metrics
// and the HTTP API.
type node struct {
	opts   *Options
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	bus       *events.Bus
	notifier  *systemd.Notifier
	monitor   *devices.Monitor
	cam       *toupcam.Camera
	service   *capture.Service
	profile   *config.Profile
	watcher   *config.Watcher[config.CameraSettings]
	collector *collectors.CameraCollector
	exporter  *exporters.SSEExporter
	leds      *led.Manager
	server    *api.Server
}

func newNode(opts *Options) *node {
	ctx, cancel := context.WithCancel(context.Background())
	return &node{
		opts:     opts,
		logger:   logging.GetLogger("main"),
		ctx:      ctx,
		cancel:   cancel,
		bus:      events.New(),
		notifier: systemd.NewNotifier(logging.GetLogger("systemd")),
	}
}

// run wires every component and serves HTTP until stop is called.
func (n *node) run() {
	opts := n.opts

	if opts.DeviceLibrary != "" {
		if err := toupcam.Load(opts.DeviceLibrary); err != nil {
			n.logger.Error("Failed to load SDK", "path", opts.DeviceLibrary, "error", err)
			os.Exit(1)
		}
	}
	if v, err := toupcam.Version(); err == nil {
		n.logger.Info("ToupTek SDK loaded", "version", v)
	} else {
		n.logger.Warn("ToupTek SDK unavailable", "error", err)
	}

	n.monitor = devices.NewMonitor(devices.EnumeratorFunc(toupcam.Enumerate), n.bus, devices.Options{})
	if err := n.monitor.Start(n.ctx); err != nil {
		n.logger.Warn("Device monitor not started", "error", err)
	}

	n.openCamera()

	apiOpts := &api.Options{
		AuthUsername: opts.AuthUsername,
		AuthPassword: opts.AuthPassword,
		EventBus:     n.bus,
		Devices:      n.monitor,
		SDKVersion:   toupcam.Version,
	}
	if n.cam != nil {
		apiOpts.Camera = n.cam
		apiOpts.Capture = n.service
		apiOpts.Settings = n.profile
	}
	if opts.MetricsPrometheusEnabled {
		apiOpts.PrometheusHandler = exporters.HTTPHandler()
	}
	if opts.MetricsSSEEnabled {
		n.exporter = exporters.NewSSEExporter(n.bus)
		n.exporter.Start(n.ctx)
	}

	if opts.FeaturesLEDControl {
		var setter led.StateSetter
		if n.cam != nil {
			setter = n.cam
		}
		ledLogger := logging.GetLogger("led")
		controller := led.New(setter, ledLogger)
		n.leds = led.NewManager(controller, n.bus, ledLogger)
		n.leds.Start()
		apiOpts.LEDController = controller
	}

	n.server = api.NewServer(apiOpts)

	if n.cam != nil && opts.CaptureAutostart {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			if err := n.service.Run(n.ctx); err != nil {
				n.notifier.Status("capture failed: " + err.Error())
			}
		}()
	}

	n.notifier.Ready()
	n.notifier.StartWatchdog(n.ctx)

	n.logger.Info("Starting HTTP server", "port", opts.Port)
	if err := n.server.Start(opts.Port); err != nil {
		n.logger.Error("Failed to start HTTP server", "error", err)
		os.Exit(1)
	}
}

// openCamera opens the configured camera and everything bound to it. A
// missing camera is not fatal; discovery and the API still run.
func (n *node) openCamera() {
	opts := n.opts

	cam, err := toupcam.Open(opts.DeviceID)
	if err != nil {
		n.logger.Warn("No camera opened", "id", opts.DeviceID, "error", err)
		n.notifier.Status("no camera")
		return
	}
	n.cam = cam
	n.logger.Info("Camera opened", "id", cam.ID())

	n.service = capture.NewService(cam, n.bus, capture.Config{
		Bits:           opts.CaptureBits,
		SnapshotDir:    opts.CaptureSnapshotDir,
		SnapshotFormat: opts.CaptureSnapshotFormat,
	})

	source := opts.CaptureProfile
	if source == "" {
		source = opts.Config
	}
	initial, err := config.LoadCameraSettings(source)
	if err != nil {
		n.logger.Warn("Failed to load camera settings", "path", source, "error", err)
	}
	if err := initial.Apply(cam, false); err != nil {
		n.logger.Warn("Failed to apply camera settings", "path", source, "error", err)
	}
	n.profile = config.NewProfile(cam, initial, opts.CaptureProfile, n.service.Running)

	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}
	n.watcher = config.NewWatcher(source, config.LoadCameraSettings, logging.GetLogger("config"))
	n.watcher.OnReload(func(s config.CameraSettings) {
		if err := n.profile.Reload(s); err != nil {
			n.logger.Warn("Failed to apply reloaded camera settings", "error", err)
			return
		}
		n.logger.Info("Camera settings reloaded", "path", source)
	})
	if err := n.watcher.Start(n.ctx); err != nil {
		n.logger.Warn("Camera settings watcher not started", "path", source, "error", err)
	}

	interval, err := time.ParseDuration(opts.MetricsInterval)
	if err != nil {
		interval = 2 * time.Second
	}
	n.collector = collectors.NewCameraCollector(cam, interval)
	n.collector.Start(n.ctx)
}

// stop shuts components down in reverse order of start.
func (n *node) stop() {
	n.logger.Info("Shutting down server")
	n.notifier.Stopping()

	if n.server != nil {
		if err := n.server.Stop(); err != nil {
			n.logger.Error("Error stopping HTTP server", "error", err)
		}
	}

	n.cancel()
	n.wg.Wait()

	if n.leds != nil {
		n.leds.Stop()
	}
	if n.exporter != nil {
		n.exporter.Stop()
	}
	if n.collector != nil {
		n.collector.Stop()
	}
	if n.watcher != nil {
		if err := n.watcher.Stop(); err != nil {
			n.logger.Warn("Error stopping config watcher", "error", err)
		}
	}
	if n.monitor != nil {
		n.monitor.Stop()
	}
	if n.cam != nil {
		if err := n.cam.Close(); err != nil {
			n.logger.Warn("Error closing camera", "error", err)
		}
	}
}
