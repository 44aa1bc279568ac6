// Package capture runs a camera's pull-mode session, keeps the most recent
// frame and saves still images.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smazurov/touptek/internal/events"
	"github.com/smazurov/touptek/internal/logging"
	"github.com/smazurov/touptek/internal/metrics"
	"github.com/smazurov/touptek/pkg/toupcam"
)

var (
	// ErrNotCapturing is returned by Snapshot when no session is running.
	ErrNotCapturing = errors.New("capture: not capturing")
	// ErrRunning is returned by Run when a session is already running.
	ErrRunning = errors.New("capture: already running")
	// ErrDisconnected ends a session whose camera was unplugged.
	ErrDisconnected = errors.New("capture: camera disconnected")
	// ErrDriver ends a session after the driver reported a fatal error.
	ErrDriver = errors.New("capture: driver error")
)

// Camera is the part of *toupcam.Camera the service drives.
type Camera interface {
	ID() string
	Start(body func(events <-chan toupcam.Event) error) error
	PullImage(bits int) (*toupcam.Image, error)
	PullStillImage(bits int) (*toupcam.Image, error)
	SnapIndex(index uint32) error
}

// EventPublisher publishes capture events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// Config configures a Service.
type Config struct {
	// Bits is the pull depth: 8, 24, 32 or 48.
	Bits int
	// SnapshotDir receives still images. Empty keeps stills in memory only.
	SnapshotDir string
	// SnapshotFormat is the file extension used for stills.
	SnapshotFormat string
}

// Frame is a pulled image with its position in the session.
type Frame struct {
	Image    *toupcam.Image
	Sequence uint64
	Time     time.Time
}

// Snapshot is a still image and where it was saved, if anywhere.
type Snapshot struct {
	Frame
	Path string
}

type snapResult struct {
	snap *Snapshot
	err  error
}

// Service runs capture sessions on one camera.
type Service struct {
	cam    Camera
	bus    EventPublisher
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	running bool
	session string
	latest  *Frame
	seq     uint64
	waiters []chan snapResult
}

// NewService creates a capture service for cam.
func NewService(cam Camera, bus EventPublisher, cfg Config) *Service {
	if cfg.Bits == 0 {
		cfg.Bits = 24
	}
	if cfg.SnapshotFormat == "" {
		cfg.SnapshotFormat = "png"
	}
	return &Service{
		cam:    cam,
		bus:    bus,
		cfg:    cfg,
		logger: logging.GetLogger("capture"),
		now:    time.Now,
	}
}

// Run captures until ctx is cancelled or the camera fails. Cancellation is
// not an error.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.running = true
	s.seq = 0
	s.session = uuid.NewString()
	session := s.session
	s.mu.Unlock()

	id := s.cam.ID()
	metrics.SetCaptureActive(id, true)
	s.publishState(events.StateCapturing, nil)
	s.logger.Info("Capture started", "camera_id", id, "session_id", session, "bits", s.cfg.Bits)

	err := s.cam.Start(func(evs <-chan toupcam.Event) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-evs:
				if err := s.handle(ev); err != nil {
					return err
				}
			}
		}
	})

	s.mu.Lock()
	s.running = false
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()
	for _, w := range waiters {
		w <- snapResult{err: ErrNotCapturing}
	}

	metrics.SetCaptureActive(id, false)
	if err != nil {
		metrics.RecordError(id, "Start")
		s.publishState(events.StateFailed, err)
		s.logger.Error("Capture failed", "camera_id", id, "session_id", session, "error", err)
		return err
	}
	s.publishState(events.StateIdle, nil)
	s.logger.Info("Capture stopped", "camera_id", id, "session_id", session)
	return nil
}

func (s *Service) handle(ev toupcam.Event) error {
	id := s.cam.ID()
	metrics.RecordEvent(id, ev.String())

	switch ev {
	case toupcam.EventImage:
		img, err := s.cam.PullImage(s.cfg.Bits)
		if err != nil {
			s.reportError("PullImage", err)
			return nil
		}
		s.store(img, false)
	case toupcam.EventStillImage:
		s.still()
	case toupcam.EventDisconnected:
		return ErrDisconnected
	case toupcam.EventError:
		return ErrDriver
	default:
		s.bus.Publish(events.CameraNotificationEvent{
			CameraID:  id,
			Event:     ev.String(),
			Code:      uint32(ev),
			Timestamp: s.now().Format(time.RFC3339),
		})
	}
	return nil
}

func (s *Service) store(img *toupcam.Image, still bool) Frame {
	s.mu.Lock()
	s.seq++
	f := Frame{Image: img, Sequence: s.seq, Time: s.now()}
	if !still {
		s.latest = &f
	}
	s.mu.Unlock()

	id := s.cam.ID()
	metrics.RecordFrame(id, len(img.Data))
	s.bus.Publish(events.FrameEvent{
		CameraID:  id,
		Sequence:  f.Sequence,
		Width:     img.Resolution.Width,
		Height:    img.Resolution.Height,
		Bits:      img.Bits,
		Bytes:     len(img.Data),
		Still:     still,
		Timestamp: f.Time.Format(time.RFC3339),
	})
	return f
}

func (s *Service) still() {
	img, err := s.cam.PullStillImage(s.cfg.Bits)
	if err != nil {
		s.reportError("PullStillImage", err)
		s.deliver(snapResult{err: err})
		return
	}
	snap := &Snapshot{Frame: s.store(img, true)}
	if s.cfg.SnapshotDir != "" {
		path, err := s.save(snap)
		if err != nil {
			s.reportError("SaveSnapshot", err)
			s.deliver(snapResult{snap: snap, err: err})
			return
		}
		snap.Path = path
		metrics.RecordSnapshot(s.cam.ID())
		s.bus.Publish(events.SnapshotSavedEvent{
			CameraID:  s.cam.ID(),
			Path:      path,
			Width:     img.Resolution.Width,
			Height:    img.Resolution.Height,
			Timestamp: snap.Time.Format(time.RFC3339),
		})
		s.logger.Info("Snapshot saved", "camera_id", s.cam.ID(), "path", path)
	}
	s.deliver(snapResult{snap: snap})
}

func (s *Service) save(snap *Snapshot) (string, error) {
	m, err := ToImage(snap.Image)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.cfg.SnapshotDir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}
	name := fmt.Sprintf("snap-%s-%04d.%s", snap.Time.Format("20060102-150405"), snap.Sequence, s.cfg.SnapshotFormat)
	path := filepath.Join(s.cfg.SnapshotDir, name)
	if err := Save(m, path); err != nil {
		return "", err
	}
	return path, nil
}

// deliver hands a still to every pending Snapshot call.
func (s *Service) deliver(r snapResult) {
	s.mu.Lock()
	waiters := s.waiters
	s.waiters = nil
	s.mu.Unlock()
	for _, w := range waiters {
		w <- r
	}
}

func (s *Service) reportError(op string, err error) {
	id := s.cam.ID()
	metrics.RecordError(id, op)
	s.logger.Warn("Camera operation failed", "camera_id", id, "operation", op, "error", err)
	s.bus.Publish(events.CameraErrorEvent{
		CameraID:  id,
		Operation: op,
		Error:     err.Error(),
		Timestamp: s.now().Format(time.RFC3339),
	})
}

func (s *Service) publishState(state string, err error) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()
	ev := events.CaptureStateChangedEvent{
		CameraID:  s.cam.ID(),
		SessionID: session,
		State:     state,
		Timestamp: s.now().Format(time.RFC3339),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	s.bus.Publish(ev)
}

// Snapshot requests a still at the still resolution index and waits for it.
// Use toupcam.SnapPreview for the current preview resolution.
func (s *Service) Snapshot(ctx context.Context, index uint32) (*Snapshot, error) {
	w := make(chan snapResult, 1)
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil, ErrNotCapturing
	}
	s.waiters = append(s.waiters, w)
	s.mu.Unlock()

	if err := s.cam.SnapIndex(index); err != nil {
		s.drop(w)
		return nil, err
	}
	select {
	case r := <-w:
		return r.snap, r.err
	case <-ctx.Done():
		s.drop(w)
		return nil, ctx.Err()
	}
}

func (s *Service) drop(w chan snapResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.waiters {
		if x == w {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			return
		}
	}
}

// Latest returns the most recent preview frame.
func (s *Service) Latest() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Frame{}, false
	}
	return *s.latest, true
}

// Running reports whether a session is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Session returns the id of the current or most recent capture session.
func (s *Service) Session() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Bits returns the configured pull depth.
func (s *Service) Bits() int {
	return s.cfg.Bits
}
