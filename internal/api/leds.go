package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// LEDRequest sets one of the camera LEDs.
type LEDRequest struct {
	Body struct {
		Type    string  `json:"type" example:"status" doc:"LED name"`
		Enabled bool    `json:"enabled" example:"true" doc:"Whether the LED should be on or off"`
		Pattern *string `json:"pattern,omitempty" example:"blink" doc:"Optional LED pattern (solid, blink, fast-blink)"`
	}
}

// LEDCapabilities lists the LEDs and patterns of the open camera.
type LEDCapabilities struct {
	AvailableTypes    []string `json:"available_types" doc:"LED names on this camera"`
	AvailablePatterns []string `json:"available_patterns" doc:"Supported LED patterns"`
}

// LEDCapabilitiesResponse wraps LEDCapabilities.
type LEDCapabilitiesResponse struct {
	Body LEDCapabilities
}

// registerLEDRoutes registers LED control endpoints
func (s *Server) registerLEDRoutes() {
	if s.options.LEDController == nil {
		s.logger.Debug("LED controller not available, skipping LED routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "control-led",
		Method:      http.MethodPost,
		Path:        "/api/leds",
		Summary:     "Control LED",
		Description: "Set an LED on the camera. A pattern only applies while the LED is enabled.",
		Tags:        []string{"leds"},
		Errors:      []int{400, 401},
		Security:    withAuth(),
	}, func(_ context.Context, input *LEDRequest) (*struct{}, error) {
		pattern := ""
		if input.Body.Pattern != nil {
			pattern = *input.Body.Pattern
		}
		if err := s.options.LEDController.Set(input.Body.Type, input.Body.Enabled, pattern); err != nil {
			return nil, huma.Error400BadRequest("Failed to control LED", err)
		}
		return &struct{}{}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/leds/capabilities",
		Summary:     "Get LED Capabilities",
		Description: "List the LEDs and patterns of the open camera",
		Tags:        []string{"leds"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*LEDCapabilitiesResponse, error) {
		return &LEDCapabilitiesResponse{
			Body: LEDCapabilities{
				AvailableTypes:    s.options.LEDController.Available(),
				AvailablePatterns: s.options.LEDController.Patterns(),
			},
		}, nil
	})
}
