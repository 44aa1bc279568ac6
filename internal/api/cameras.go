package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/touptek/internal/api/models"
)

// registerCameraRoutes registers discovery, camera info and settings routes.
func (s *Server) registerCameraRoutes() {
	if s.options.Devices != nil {
		huma.Register(s.api, huma.Operation{
			OperationID: "list-cameras",
			Method:      http.MethodGet,
			Path:        "/api/cameras",
			Summary:     "List Cameras",
			Description: "List connected cameras as last seen by hot-plug discovery",
			Tags:        []string{"cameras"},
			Security:    withAuth(),
			Errors:      []int{401},
		}, func(_ context.Context, _ *struct{}) (*models.CamerasResponse, error) {
			list := s.options.Devices.Devices()
			return &models.CamerasResponse{
				Body: models.CamerasData{Cameras: list, Count: len(list)},
			}, nil
		})
	}

	if s.options.Camera == nil {
		s.logger.Debug("No camera open, skipping camera routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera",
		Method:      http.MethodGet,
		Path:        "/api/camera",
		Summary:     "Get Camera",
		Description: "Get identity and current exposure of the open camera. Values the camera does not support are omitted.",
		Tags:        []string{"cameras"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.CameraResponse, error) {
		return &models.CameraResponse{Body: s.cameraData()}, nil
	})

	if s.options.Settings == nil {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-camera-settings",
		Method:      http.MethodGet,
		Path:        "/api/camera/settings",
		Summary:     "Get Camera Settings",
		Description: "Get the settings profile in effect",
		Tags:        []string{"cameras"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.SettingsResponse, error) {
		return &models.SettingsResponse{Body: s.options.Settings.Current()}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-camera-settings",
		Method:      http.MethodPatch,
		Path:        "/api/camera/settings",
		Summary:     "Update Camera Settings",
		Description: "Apply the given settings and merge them into the profile. Resolution, raw, rgb48 and bit_depth16 are rejected while capturing.",
		Tags:        []string{"cameras"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 409, 500},
	}, func(_ context.Context, input *models.SettingsRequest) (*models.SettingsResponse, error) {
		next, err := s.options.Settings.Update(input.Body)
		if err != nil {
			return nil, statusError("Failed to apply camera settings", err)
		}
		return &models.SettingsResponse{Body: next}, nil
	})
}

// cameraData collects camera info, leaving out values that fail to read.
func (s *Server) cameraData() models.CameraData {
	cam := s.options.Camera
	d := models.CameraData{ID: cam.ID()}

	if s.options.Devices != nil {
		if inst, ok := s.options.Devices.Lookup(d.ID); ok {
			d.DisplayName = inst.DisplayName
			d.Model = &inst.Model
		}
	}
	if s.options.Capture != nil {
		d.Capturing = s.options.Capture.Running()
		if d.Capturing {
			d.SessionID = s.options.Capture.Session()
		}
	}

	d.SerialNumber, _ = cam.SerialNumber()
	d.FirmwareVersion, _ = cam.FirmwareVersion()
	d.HardwareVersion, _ = cam.HardwareVersion()
	d.ProductionDate, _ = cam.ProductionDate()

	if r, err := cam.Size(); err == nil {
		d.Resolution = &r
	}
	if on, err := cam.AutoExposure(); err == nil {
		d.AutoExposure = &on
	}
	if us, err := cam.ExposureTime(); err == nil {
		d.ExposureTime = &us
	}
	if g, err := cam.ExposureGain(); err == nil {
		d.ExposureGain = &g
	}
	if t, err := cam.Temperature(); err == nil {
		c := float64(t) / 10
		d.Temperature = &c
	}
	return d
}
