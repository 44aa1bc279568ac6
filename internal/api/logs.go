package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/touptek/internal/api/models"
	"github.com/smazurov/touptek/internal/logging"
)

// registerLogRoutes registers log history and level endpoints.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Get recent log entries held in memory",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, input *models.LogsRequest) (*models.LogsResponse, error) {
		resp := &models.LogsResponse{}
		resp.Body.Entries = logging.GetHistory().Recent(input.Limit)
		if resp.Body.Entries == nil {
			resp.Body.Entries = []logging.Entry{}
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-log-level",
		Method:      http.MethodPost,
		Path:        "/api/logs/level",
		Summary:     "Set Log Level",
		Description: "Change the level of one module at runtime. An empty module sets the global level.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{400, 401},
	}, func(_ context.Context, input *models.LogLevelRequest) (*struct{}, error) {
		if !logging.SetLevel(input.Body.Module, input.Body.Level) {
			return nil, huma.Error400BadRequest("Unknown module: " + input.Body.Module)
		}
		s.logger.Info("Log level changed", "module", input.Body.Module, "level", input.Body.Level)
		return &struct{}{}, nil
	})
}
