// Package models holds the request and response bodies of the HTTP API.
package models

import (
	"github.com/smazurov/touptek/internal/config"
	"github.com/smazurov/touptek/internal/logging"
	"github.com/smazurov/touptek/internal/version"
	"github.com/smazurov/touptek/pkg/toupcam"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

type VersionResponse struct {
	Body version.Info
}

// Camera models
type CamerasData struct {
	Cameras []toupcam.Instance `json:"cameras" doc:"Connected cameras"`
	Count   int                `json:"count" example:"1" doc:"Number of connected cameras"`
}

type CamerasResponse struct {
	Body CamerasData
}

type CameraData struct {
	ID              string              `json:"id" example:"tp-usb-0001" doc:"Camera identifier"`
	DisplayName     string              `json:"display_name,omitempty" example:"E3ISPM08300KPA" doc:"Display name"`
	Model           *toupcam.Model      `json:"model,omitempty" doc:"Model capabilities"`
	SerialNumber    string              `json:"serial_number,omitempty" example:"TP1234567890ABCDEF01234567890123" doc:"Serial number"`
	FirmwareVersion string              `json:"firmware_version,omitempty" example:"3.1.2.20240101" doc:"Firmware version"`
	HardwareVersion string              `json:"hardware_version,omitempty" example:"3.1" doc:"Hardware version"`
	ProductionDate  string              `json:"production_date,omitempty" example:"20240101" doc:"Production date"`
	Resolution      *toupcam.Resolution `json:"resolution,omitempty" doc:"Current preview resolution"`
	Capturing       bool                `json:"capturing" doc:"Whether a capture session is running"`
	SessionID       string              `json:"session_id,omitempty" doc:"Id of the running capture session"`
	AutoExposure    *bool               `json:"auto_exposure,omitempty" doc:"Auto exposure enabled"`
	ExposureTime    *uint32             `json:"exposure_us,omitempty" example:"10000" doc:"Exposure time in microseconds"`
	ExposureGain    *uint16             `json:"gain,omitempty" example:"100" doc:"Analog gain in percent"`
	Temperature     *float64            `json:"temperature_c,omitempty" example:"24.5" doc:"Sensor temperature in degrees Celsius"`
}

type CameraResponse struct {
	Body CameraData
}

type SettingsRequest struct {
	Body config.CameraSettings
}

type SettingsResponse struct {
	Body config.CameraSettings
}

// Capture models
type SnapRequest struct {
	Body struct {
		Index *uint32 `json:"index,omitempty" example:"0" doc:"Still resolution index; omit for the preview resolution"`
	} `required:"false"`
}

type SnapData struct {
	Path     string `json:"path,omitempty" example:"/var/lib/toupnode/snap-20260127-103000-0001.png" doc:"Saved file, when a snapshot directory is configured"`
	Width    uint32 `json:"width" example:"3840" doc:"Image width in pixels"`
	Height   uint32 `json:"height" example:"2160" doc:"Image height in pixels"`
	Bits     int    `json:"bits" example:"24" doc:"Bits per pixel"`
	Sequence uint64 `json:"sequence" example:"12" doc:"Frame counter since capture start"`
}

type SnapResponse struct {
	Body SnapData
}

type FrameRequest struct {
	Width int `query:"width" minimum:"0" example:"320" doc:"Scale to this width, keeping the aspect ratio"`
}

type FrameResponse struct {
	ContentType string `header:"Content-Type"`
	Sequence    string `header:"X-Frame-Sequence"`
	Body        []byte
}

// Log models
type LogsRequest struct {
	Limit int `query:"limit" minimum:"0" default:"100" doc:"Maximum number of entries, newest last"`
}

type LogsResponse struct {
	Body struct {
		Entries []logging.Entry `json:"entries" doc:"Recent log entries"`
	}
}

type LogLevelRequest struct {
	Body struct {
		Module string `json:"module,omitempty" required:"false" example:"capture" doc:"Module name; empty for the global level"`
		Level  string `json:"level" example:"debug" enum:"debug,info,warn,error" doc:"New level"`
	}
}
