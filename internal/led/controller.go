// Package led drives the status LEDs on the camera body.
package led

// Controller abstracts LED control.
type Controller interface {
	// Set controls an LED's state and optional pattern
	// Parameters:
	//   ledType: LED identifier (e.g., "status")
	//   enabled: whether the LED should be on or off
	//   pattern: optional pattern ("solid", "blink", "fast-blink");
	//            empty string keeps the current one
	Set(ledType string, enabled bool, pattern string) error

	// Available returns the list of LED types supported by this controller
	Available() []string

	// Patterns returns the list of patterns supported by this controller
	Patterns() []string
}
