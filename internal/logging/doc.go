// Package logging provides structured logging with per-module log levels.
//
// Records go to stdout when it is connected to a terminal, pipe or file, to
// the systemd journal when journald is running, and to an in-memory history
// served by the HTTP API.
//
// Initialize once at startup, then take a logger per module:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"capture": "debug",
//		},
//	})
//
//	logger := logging.GetLogger("capture")
//	logger.Info("capture started", "camera", id)
//
// Loggers obtained before Initialize are rebuilt in place, so package-level
// loggers pick up the configured format and levels.
//
// # Viewing Logs
//
//	journalctl -t toupnode -f
//	journalctl -t toupnode MODULE=capture
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "json"
//
//	[logging.modules]
//	devices = "debug"
package logging
