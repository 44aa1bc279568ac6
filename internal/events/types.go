package events

// Event type constants for kelindar/event.
const (
	TypeDeviceDiscovery uint32 = iota + 1
	TypeCaptureStateChanged
	TypeFrame
	TypeCameraNotification
	TypeCameraError
	TypeSnapshotSaved
	TypeCameraMetrics
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// Capture states.
const (
	StateIdle      = "idle"
	StateCapturing = "capturing"
	StateFailed    = "failed"
)

// DeviceDiscoveryEvent reports a camera appearing or disappearing.
type DeviceDiscoveryEvent struct {
	CameraID    string `json:"camera_id" example:"tp-usb-0001" doc:"Camera identifier"`
	DisplayName string `json:"display_name" example:"E3ISPM08300KPA" doc:"Camera display name"`
	Model       string `json:"model" example:"E3ISPM08300KPA" doc:"Camera model name"`
	Action      string `json:"action" example:"added" doc:"Action type: added, removed"`
	Timestamp   string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for DeviceDiscoveryEvent.
func (e DeviceDiscoveryEvent) Type() uint32 { return TypeDeviceDiscovery }

// CaptureStateChangedEvent reports a capture session starting or ending.
type CaptureStateChangedEvent struct {
	CameraID  string `json:"camera_id" example:"tp-usb-0001" doc:"Camera identifier"`
	SessionID string `json:"session_id,omitempty" example:"3f1c2a9e-6b7d-4f0e-9a51-2c8d7e4b1a60" doc:"Capture session id"`
	State     string `json:"state" example:"capturing" doc:"New state: idle, capturing, failed"`
	Error     string `json:"error,omitempty" doc:"Why the session ended, when it failed"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CaptureStateChangedEvent.
func (e CaptureStateChangedEvent) Type() uint32 { return TypeCaptureStateChanged }

// FrameEvent announces a pulled frame. Pixel data is fetched separately.
type FrameEvent struct {
	CameraID  string `json:"camera_id" example:"tp-usb-0001" doc:"Camera identifier"`
	Sequence  uint64 `json:"sequence" example:"42" doc:"Frame counter since capture start"`
	Width     uint32 `json:"width" example:"1920" doc:"Frame width in pixels"`
	Height    uint32 `json:"height" example:"1080" doc:"Frame height in pixels"`
	Bits      int    `json:"bits" example:"24" doc:"Bits per pixel"`
	Bytes     int    `json:"bytes" example:"6220800" doc:"Frame size in bytes"`
	Still     bool   `json:"still" doc:"Whether this is a still image"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Pull timestamp"`
}

// Type returns the event type identifier for FrameEvent.
func (e FrameEvent) Type() uint32 { return TypeFrame }

// CameraNotificationEvent relays a driver notification such as a new
// exposure or white balance.
type CameraNotificationEvent struct {
	CameraID  string `json:"camera_id" example:"tp-usb-0001" doc:"Camera identifier"`
	Event     string `json:"event" example:"exposure" doc:"Notification name"`
	Code      uint32 `json:"code" example:"1" doc:"Native event code"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CameraNotificationEvent.
func (e CameraNotificationEvent) Type() uint32 { return TypeCameraNotification }

// CameraErrorEvent reports a failed camera operation or a driver error.
type CameraErrorEvent struct {
	CameraID  string `json:"camera_id" example:"tp-usb-0001" doc:"Camera identifier"`
	Operation string `json:"operation" example:"PullImage" doc:"Failed operation"`
	Error     string `json:"error" example:"toupcam: PullImage: E_UNEXPECTED" doc:"Error description"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for CameraErrorEvent.
func (e CameraErrorEvent) Type() uint32 { return TypeCameraError }

// SnapshotSavedEvent reports a still image written to disk.
type SnapshotSavedEvent struct {
	CameraID  string `json:"camera_id" example:"tp-usb-0001" doc:"Camera identifier"`
	Path      string `json:"path" example:"/var/lib/toupnode/snap-20260127-103000.png" doc:"File path"`
	Width     uint32 `json:"width" example:"3840" doc:"Image width in pixels"`
	Height    uint32 `json:"height" example:"2160" doc:"Image height in pixels"`
	Timestamp string `json:"timestamp" example:"2026-01-27T10:30:00Z" doc:"Save timestamp"`
}

// Type returns the event type identifier for SnapshotSavedEvent.
func (e SnapshotSavedEvent) Type() uint32 { return TypeSnapshotSaved }

// CameraMetricsEvent carries periodic capture statistics for SSE clients.
type CameraMetricsEvent struct {
	CameraID     string  `json:"camera_id" example:"tp-usb-0001" doc:"Camera identifier"`
	FPS          string  `json:"fps" example:"29.97" doc:"Frames pulled per second"`
	Frames       string  `json:"frames" example:"1200" doc:"Frames pulled since capture start"`
	Temperature  float64 `json:"temperature_c" example:"24.5" doc:"Sensor temperature in degrees Celsius"`
	ExposureTime uint32  `json:"exposure_us" example:"10000" doc:"Exposure time in microseconds"`
	ExposureGain uint16  `json:"gain" example:"100" doc:"Analog gain in percent"`
}

// Type returns the event type identifier for CameraMetricsEvent.
func (e CameraMetricsEvent) Type() uint32 { return TypeCameraMetrics }
