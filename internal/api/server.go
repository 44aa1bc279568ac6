// Package api serves the camera over HTTP with huma.
package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/smazurov/touptek/internal/api/models"
	"github.com/smazurov/touptek/internal/capture"
	"github.com/smazurov/touptek/internal/config"
	"github.com/smazurov/touptek/internal/events"
	"github.com/smazurov/touptek/internal/led"
	"github.com/smazurov/touptek/internal/logging"
	"github.com/smazurov/touptek/internal/version"
	"github.com/smazurov/touptek/pkg/toupcam"
)

// DeviceLister lists known cameras.
type DeviceLister interface {
	Devices() []toupcam.Instance
	Lookup(id string) (toupcam.Instance, bool)
}

// Camera is the read side of the open camera.
type Camera interface {
	ID() string
	Size() (toupcam.Resolution, error)
	SerialNumber() (string, error)
	FirmwareVersion() (string, error)
	HardwareVersion() (string, error)
	ProductionDate() (string, error)
	AutoExposure() (bool, error)
	ExposureTime() (uint32, error)
	ExposureGain() (uint16, error)
	Temperature() (int16, error)
}

// FrameSource is the capture service.
type FrameSource interface {
	Latest() (capture.Frame, bool)
	Snapshot(ctx context.Context, index uint32) (*capture.Snapshot, error)
	Running() bool
	Session() string
}

// SettingsStore holds the camera settings profile.
type SettingsStore interface {
	Current() config.CameraSettings
	Update(patch config.CameraSettings) (config.CameraSettings, error)
}

// Options wires the server to the rest of the node. Nil components leave
// their routes unregistered.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	EventBus          *events.Bus
	Devices           DeviceLister
	Camera            Camera
	Capture           FrameSource
	Settings          SettingsStore
	LEDController     led.Controller
	SDKVersion        func() (string, error)
	SnapshotTimeout   time.Duration
	PrometheusHandler http.Handler // Optional Prometheus metrics handler
}

// Server is the huma API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	options    *Options
	eventBus   *events.Bus
	logger     *slog.Logger
}

// basicAuthMiddleware creates middleware for HTTP basic authentication
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		// Skip auth for operations without security requirements
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		credentials, err := requestCredentials(ctx)
		if err != nil {
			s.unauthorized(ctx, "Invalid credentials format", err)
			return
		}
		if credentials == "" {
			s.unauthorized(ctx, "Authentication required")
			return
		}

		user, pass, ok := strings.Cut(credentials, ":")
		if !ok {
			s.unauthorized(ctx, "Invalid credentials format")
			return
		}
		if user != username || pass != password {
			s.unauthorized(ctx, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

// requestCredentials reads "user:pass" from the Authorization header, or
// from the auth query parameter for EventSource clients that cannot set
// headers.
func requestCredentials(ctx huma.Context) (string, error) {
	encoded := ctx.Query("auth")
	if h := ctx.Header("Authorization"); h != "" {
		const prefix = "Basic "
		if !strings.HasPrefix(h, prefix) {
			return "", errInvalidAuthType
		}
		encoded = h[len(prefix):]
	}
	if encoded == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func (s *Server) unauthorized(ctx huma.Context, msg string, errs ...error) {
	ctx.SetHeader("WWW-Authenticate", `Basic realm="toupnode"`)
	_ = huma.WriteErr(s.api, ctx, http.StatusUnauthorized, msg, errs...)
}

// NewServer creates a new API server with Huma v2 using Go 1.22+ native routing
func NewServer(opts *Options) *Server {
	if opts.EventBus == nil {
		opts.EventBus = events.New()
	}
	if opts.SnapshotTimeout <= 0 {
		opts.SnapshotTimeout = 10 * time.Second
	}
	mux := http.NewServeMux()

	config := huma.DefaultConfig("toupnode API", version.String())
	config.Info.Description = "Capture and control API for ToupTek cameras"
	// Empty servers list will make OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	server := &Server{
		api:      api,
		mux:      mux,
		options:  opts,
		eventBus: opts.EventBus,
		logger:   logging.GetLogger("api"),
	}

	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	// Metrics are scraped without auth.
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()
	return server
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start serves on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting toupnode API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop closes the listener and all connections, including SSE streams.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application and SDK version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		return &models.VersionResponse{Body: version.Get(s.options.SDKVersion)}, nil
	})

	s.registerCameraRoutes()
	s.registerCaptureRoutes()
	s.registerLEDRoutes()
	s.registerLogRoutes()
	s.registerSSERoutes()
}

// withAuth returns security requirement for basic auth
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
