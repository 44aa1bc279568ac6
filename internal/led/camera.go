package led

import (
	"fmt"
	"slices"
	"sync"
)

// LED states understood by put_LEDState.
const (
	stateOff   uint16 = 0
	stateSolid uint16 = 1
	stateFlash uint16 = 2
)

// Flash periods in milliseconds. The SDK rejects periods below 500.
const (
	blinkPeriod     uint16 = 1000
	fastBlinkPeriod uint16 = 500
)

// StateSetter is the camera call behind the controller.
type StateSetter interface {
	SetLEDState(led, state, period uint16) error
}

// camera implements Controller on the LEDs of a ToupTek camera.
type camera struct {
	setter StateSetter
	leds   map[string]uint16 // LED type -> SDK LED index

	mu      sync.Mutex
	pattern map[string]string
}

func newCamera(setter StateSetter, leds map[string]uint16) *camera {
	return &camera{
		setter:  setter,
		leds:    leds,
		pattern: make(map[string]string),
	}
}

// Set maps the pattern to an SDK state and period.
func (c *camera) Set(ledType string, enabled bool, pattern string) error {
	idx, ok := c.leds[ledType]
	if !ok {
		return fmt.Errorf("LED type %q not supported on this camera", ledType)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if pattern == "" {
		pattern = c.pattern[ledType]
		if pattern == "" {
			pattern = "solid"
		}
	}

	state, period := stateOff, uint16(0)
	if enabled {
		switch pattern {
		case "solid":
			state = stateSolid
		case "blink":
			state, period = stateFlash, blinkPeriod
		case "fast-blink":
			state, period = stateFlash, fastBlinkPeriod
		default:
			return fmt.Errorf("unsupported LED pattern %q", pattern)
		}
	}
	if err := c.setter.SetLEDState(idx, state, period); err != nil {
		return fmt.Errorf("set LED %q: %w", ledType, err)
	}
	c.pattern[ledType] = pattern
	return nil
}

// Available returns the configured LED types, sorted.
func (c *camera) Available() []string {
	types := make([]string, 0, len(c.leds))
	for t := range c.leds {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Patterns returns the supported patterns.
func (c *camera) Patterns() []string {
	return []string{"solid", "blink", "fast-blink"}
}
