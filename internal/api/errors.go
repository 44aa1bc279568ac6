package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/touptek/internal/capture"
	"github.com/smazurov/touptek/internal/config"
	"github.com/smazurov/touptek/pkg/toupcam"
)

var errInvalidAuthType = errors.New("invalid authentication type")

// statusError maps camera and capture errors to HTTP errors.
func statusError(msg string, err error) error {
	var hr toupcam.HRESULT
	switch {
	case errors.Is(err, config.ErrInvalidSettings),
		errors.Is(err, toupcam.ErrResolutionNotFound),
		errors.Is(err, toupcam.ErrUnsupportedBits):
		return huma.Error400BadRequest(msg, err)
	case errors.Is(err, capture.ErrNotCapturing),
		errors.Is(err, toupcam.ErrCapturing):
		return huma.Error409Conflict(msg, err)
	case errors.Is(err, capture.ErrRawFrame):
		return huma.Error422UnprocessableEntity(msg, err)
	case errors.Is(err, toupcam.ErrClosed):
		return huma.Error503ServiceUnavailable(msg, err)
	case errors.As(err, &hr):
		switch hr {
		case toupcam.EInvalidArg:
			return huma.Error400BadRequest(msg, err)
		case toupcam.ENotImpl:
			return huma.Error501NotImplemented(msg, err)
		case toupcam.EUnexpected:
			return huma.Error409Conflict(msg, err)
		}
	}
	return huma.Error500InternalServerError(msg, err)
}
