package led

import (
	"log/slog"
)

// StatusLED is the LED type the manager drives.
const StatusLED = "status"

// New creates an LED controller backed by setter. A nil setter, such as
// when no camera is open, yields a no-op controller.
func New(setter StateSetter, logger *slog.Logger) Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if setter == nil {
		logger.Info("No camera attached, using no-op LED controller")
		return newNoop(logger)
	}
	logger.Debug("Using camera LED controller")
	return newCamera(setter, map[string]uint16{
		StatusLED: 0,
	})
}
