package main

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/touptek/cmd"
	"github.com/smazurov/touptek/internal/config"
	"github.com/smazurov/touptek/internal/logging"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Address to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Device settings
	DeviceID      string `help:"Camera id to open (default: first camera)" toml:"device.id" env:"DEVICE_ID"`
	DeviceLibrary string `help:"Path to libtoupcam" toml:"device.library" env:"DEVICE_LIBRARY"`

	// Capture settings
	CaptureBits           int    `help:"Pull depth: 8, 24, 32 or 48" default:"24" toml:"capture.bits" env:"CAPTURE_BITS"`
	CaptureAutostart      bool   `help:"Start capturing when the camera opens" default:"true" toml:"capture.autostart" env:"CAPTURE_AUTOSTART"`
	CaptureSnapshotDir    string `help:"Directory for still images" toml:"capture.snapshot_dir" env:"CAPTURE_SNAPSHOT_DIR"`
	CaptureSnapshotFormat string `help:"Still image format (png, jpg)" default:"png" toml:"capture.snapshot_format" env:"CAPTURE_SNAPSHOT_FORMAT"`
	CaptureProfile        string `help:"Camera settings file written by the API (default: read [camera] from the config file, never written)" toml:"capture.profile" env:"CAPTURE_PROFILE"`

	// Metrics settings
	MetricsInterval          string `help:"Camera telemetry poll interval" default:"2s" toml:"metrics.interval" env:"METRICS_INTERVAL"`
	MetricsPrometheusEnabled bool   `help:"Serve /metrics" default:"true" toml:"metrics.prometheus_enabled" env:"METRICS_PROMETHEUS_ENABLED"`
	MetricsSSEEnabled        bool   `help:"Publish metrics on the event stream" default:"true" toml:"metrics.sse_enabled" env:"METRICS_SSE_ENABLED"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Features settings
	FeaturesLEDControl bool `help:"Drive the camera status LED from capture state" default:"false" toml:"features.led_control_enabled" env:"FEATURES_LED_CONTROL"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCapture string `help:"Capture logging level" default:"info" toml:"logging.capture" env:"LOGGING_CAPTURE"`
	LoggingDevices string `help:"Devices logging level" default:"info" toml:"logging.devices" env:"LOGGING_DEVICES"`
	LoggingMetrics string `help:"Metrics logging level" default:"info" toml:"logging.metrics" env:"LOGGING_METRICS"`
	LoggingConfig  string `help:"Config watcher logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingLED     string `help:"LED logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"capture": opts.LoggingCapture,
				"devices": opts.LoggingDevices,
				"metrics": opts.LoggingMetrics,
				"config":  opts.LoggingConfig,
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingHTTP,
				"led":     opts.LoggingLED,
			},
		})

		n := newNode(opts)

		hooks.OnStart(n.run)
		hooks.OnStop(n.stop)
	})

	cli.Root().Use = "toupnode"
	cli.Root().Short = "Capture and control node for ToupTek cameras"

	cli.Root().AddCommand(cmd.CreateListCmd())
	cli.Root().AddCommand(cmd.CreateCaptureCmd())
	cli.Root().AddCommand(cmd.CreateEEPROMCmd())
	cli.Root().AddCommand(cmd.CreateUpdateCmd())

	cli.Run()
}
