package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/touptek/internal/api/models"
	"github.com/smazurov/touptek/internal/capture"
	"github.com/smazurov/touptek/pkg/toupcam"
)

// registerCaptureRoutes registers the latest frame and snapshot routes.
func (s *Server) registerCaptureRoutes() {
	if s.options.Capture == nil {
		s.logger.Debug("Capture service not available, skipping capture routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-frame",
		Method:      http.MethodGet,
		Path:        "/api/camera/frame",
		Summary:     "Latest Frame",
		Description: "Get the most recent preview frame as PNG, optionally scaled down to a width",
		Tags:        []string{"capture"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 422},
	}, func(_ context.Context, input *models.FrameRequest) (*models.FrameResponse, error) {
		f, ok := s.options.Capture.Latest()
		if !ok {
			return nil, huma.Error404NotFound("No frame captured yet")
		}
		img, err := capture.ToImage(f.Image)
		if err != nil {
			return nil, statusError("Failed to convert frame", err)
		}
		var buf bytes.Buffer
		if err := capture.EncodePNG(&buf, capture.Thumbnail(img, input.Width)); err != nil {
			return nil, huma.Error500InternalServerError("Failed to encode frame", err)
		}
		return &models.FrameResponse{
			ContentType: "image/png",
			Sequence:    strconv.FormatUint(f.Sequence, 10),
			Body:        buf.Bytes(),
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "snap",
		Method:      http.MethodPost,
		Path:        "/api/camera/snap",
		Summary:     "Snap",
		Description: "Take a still image and wait for it. The still is saved when a snapshot directory is configured.",
		Tags:        []string{"capture"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 409, 500, 504},
	}, func(ctx context.Context, input *models.SnapRequest) (*models.SnapResponse, error) {
		index := toupcam.SnapPreview
		if input.Body.Index != nil {
			index = *input.Body.Index
		}
		ctx, cancel := context.WithTimeout(ctx, s.options.SnapshotTimeout)
		defer cancel()

		snap, err := s.options.Capture.Snapshot(ctx, index)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, huma.Error504GatewayTimeout("Timed out waiting for still image")
		}
		if err != nil {
			return nil, statusError("Snapshot failed", err)
		}
		return &models.SnapResponse{
			Body: models.SnapData{
				Path:     snap.Path,
				Width:    snap.Image.Resolution.Width,
				Height:   snap.Image.Resolution.Height,
				Bits:     snap.Image.Bits,
				Sequence: snap.Sequence,
			},
		}, nil
	})
}
