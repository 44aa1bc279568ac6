package toupcam

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// EventQueueSize is the capacity of the event channel passed to the Start body.
// The driver thread blocks when the channel is full.
const EventQueueSize = 64

type pullFunc func(h uintptr, data unsafe.Pointer, bits int32, width, height *uint32) int32

type session struct {
	events chan Event
	done   chan struct{}
}

var (
	sessionsMu sync.RWMutex
	sessions   = make(map[uintptr]*session)
	nextCtx    uintptr
)

func registerSession(s *session) uintptr {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	nextCtx++
	sessions[nextCtx] = s
	return nextCtx
}

func unregisterSession(ctx uintptr) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	delete(sessions, ctx)
}

func lookupSession(ctx uintptr) *session {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()
	return sessions[ctx]
}

// dispatchEvent runs on the driver thread. It blocks until the body receives
// the event or the session ends.
func dispatchEvent(ev Event, ctx uintptr) {
	s := lookupSession(ctx)
	if s == nil {
		return
	}
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Start begins pull-mode capture and runs body with the event channel. When
// body returns, or panics, capture is stopped before Start returns. The
// result joins the body error with any error from stopping.
//
// Only one capture may run per camera; a second Start returns ErrCapturing.
// Events are delivered in driver order and unknown event codes are passed
// through unchanged.
func (c *Camera) Start(body func(events <-chan Event) error) (err error) {
	c.mu.Lock()
	if c.h == 0 {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.sess != nil {
		c.mu.Unlock()
		return ErrCapturing
	}
	s := &session{
		events: make(chan Event, EventQueueSize),
		done:   make(chan struct{}),
	}
	ctx := registerSession(s)
	if err := ensure("StartPullModeWithCallback", c.lib.startPullModeWithCallback(c.h, c.lib.eventCallback, ctx)); err != nil {
		unregisterSession(ctx)
		c.mu.Unlock()
		return err
	}
	c.sess = s
	c.mu.Unlock()
	logger().Debug("capture started", "id", c.id)

	var bodyErr error
	defer func() {
		close(s.done)
		stopErr := c.stop()
		unregisterSession(ctx)
		logger().Debug("capture stopped", "id", c.id)
		err = errors.Join(bodyErr, stopErr)
	}()

	bodyErr = body(s.events)
	return bodyErr
}

func (c *Camera) stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = nil
	return ensure("Stop", c.lib.stop(c.h))
}

// Capturing reports whether Start is running.
func (c *Camera) Capturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil
}

// PullImage pulls the frame announced by EventImage at the given bit depth.
func (c *Camera) PullImage(bits int) (*Image, error) {
	return c.pull("PullImage", c.lib.pullImage, bits)
}

// PullStillImage pulls the frame announced by EventStillImage.
func (c *Camera) PullStillImage(bits int) (*Image, error) {
	return c.pull("PullStillImage", c.lib.pullStillImage, bits)
}

// pull queries the frame size with a NULL buffer, then pulls into a buffer
// sized by BufferSize. Processed frames of an unsupported depth fail before
// the driver is asked for anything.
func (c *Camera) pull(op string, fn pullFunc, bits int) (*Image, error) {
	raw, err := c.Raw()
	if err != nil {
		return nil, err
	}
	rgb48, err := c.RGB48()
	if err != nil {
		return nil, err
	}
	if !raw {
		if _, err := Stride(bits, 0); err != nil {
			return nil, err
		}
	}

	var w, ht uint32
	err = c.call(func(_ *library, h uintptr) error {
		return ensure(op, fn(h, nil, int32(bits), &w, &ht))
	})
	if err != nil {
		return nil, err
	}

	size, err := BufferSize(bits, w, ht, raw, rgb48)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, fmt.Errorf("toupcam: %s: driver reported an empty %dx%d frame", op, w, ht)
	}

	buf := make([]byte, size)
	err = c.call(func(_ *library, h uintptr) error {
		return ensure(op, fn(h, unsafe.Pointer(&buf[0]), int32(bits), &w, &ht))
	})
	if err != nil {
		return nil, err
	}
	return &Image{
		Resolution: Resolution{Width: w, Height: ht},
		Bits:       bits,
		Raw:        raw,
		RGB48:      rgb48,
		Data:       buf,
	}, nil
}

// BufferSize returns the number of bytes the driver writes for one frame.
//
// With raw enabled the size is width*height, doubled when rgb48 is also
// enabled. Otherwise 8, 24 and 48 bit rows are padded to 32 bits and 32 bit
// frames are width*height*4. Any other depth returns ErrUnsupportedBits.
func BufferSize(bits int, width, height uint32, raw, rgb48 bool) (int, error) {
	w, h := int(width), int(height)
	if raw {
		if rgb48 {
			return w * h * 2, nil
		}
		return w * h, nil
	}
	stride, err := Stride(bits, width)
	if err != nil {
		return 0, err
	}
	return stride * h, nil
}

// Stride returns the row length in bytes of a processed frame.
func Stride(bits int, width uint32) (int, error) {
	w := int(width)
	switch bits {
	case 8, 24, 48:
		return align32(bits*w) / 8, nil
	case 32:
		return w * 4, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBits, bits)
	}
}

// align32 rounds a bit count up to a multiple of 32.
func align32(x int) int {
	return (x + 31) &^ 31
}

// BufferSize is BufferSize with the camera's current raw and RGB48 options.
func (c *Camera) BufferSize(bits int, width, height uint32) (int, error) {
	raw, err := c.Raw()
	if err != nil {
		return 0, err
	}
	rgb48, err := c.RGB48()
	if err != nil {
		return 0, err
	}
	return BufferSize(bits, width, height, raw, rgb48)
}

// Pause suspends or resumes frame delivery without stopping capture.
func (c *Camera) Pause(pause bool) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("Pause", l.pause(h, cbool(pause)))
	})
}

// Snap requests a still image at res, which must exactly match one of the
// camera's still resolutions. The frame is announced by EventStillImage.
func (c *Camera) Snap(res Resolution) error {
	n, err := c.StillResolutionCount()
	if err != nil {
		return err
	}
	for i := range uint32(n) {
		r, err := c.StillResolution(i)
		if err != nil {
			return err
		}
		if r == res {
			return c.SnapIndex(i)
		}
	}
	return fmt.Errorf("%w: %s", ErrResolutionNotFound, res)
}

// SnapPreview is the SnapIndex argument that requests a still image at the
// current preview resolution.
const SnapPreview uint32 = 0xffffffff

// SnapIndex requests a still image at the still resolution with the given
// index, or at the preview resolution for SnapPreview.
func (c *Camera) SnapIndex(index uint32) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("Snap", l.snap(h, index))
	})
}

// Trigger requests one frame in trigger mode.
func (c *Camera) Trigger() error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("Trigger", l.trigger(h))
	})
}
