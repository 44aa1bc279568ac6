package toupcam

import (
	"fmt"
	"sync"
	"unsafe"
)

// Camera is an open camera handle. It must not be copied after Open.
//
// A Camera is released exactly once by Close. After Close every method
// returns ErrClosed.
type Camera struct {
	lib *library

	mu   sync.Mutex
	h    uintptr
	id   string
	sess *session
}

// Version returns the version string of the loaded SDK.
func Version() (string, error) {
	l, err := getLibrary()
	if err != nil {
		return "", err
	}
	return cstringAt(l.version())
}

// Enumerate lists connected cameras. At most MaxInstances are reported.
func Enumerate() ([]Instance, error) {
	l, err := getLibrary()
	if err != nil {
		return nil, err
	}
	return enumerate(l)
}

func enumerate(l *library) ([]Instance, error) {
	var arr [MaxInstances]instance
	n := l.enum(unsafe.Pointer(&arr))
	return unmarshalInstances(&arr, n)
}

// Open opens the camera with the given id as reported by Enumerate. An empty
// id opens the first camera found.
func Open(id string) (*Camera, error) {
	l, err := getLibrary()
	if err != nil {
		return nil, err
	}
	return open(l, id)
}

func open(l *library, id string) (*Camera, error) {
	h := l.open(cbytes(id))
	if h == 0 {
		if id == "" {
			return nil, fmt.Errorf("%w: no camera connected", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	logger().Debug("opened camera", "id", id)
	return &Camera{lib: l, h: h, id: id}, nil
}

// ID returns the id the camera was opened with. It is empty when the first
// camera was opened.
func (c *Camera) ID() string {
	return c.id
}

// Close releases the handle. Closing an already closed camera is a no-op.
// Close fails with ErrCapturing while Start is running.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.h == 0 {
		return nil
	}
	if c.sess != nil {
		return ErrCapturing
	}
	c.lib.close(c.h)
	c.h = 0
	logger().Debug("closed camera", "id", c.id)
	return nil
}

// call runs fn with the live handle while holding the camera lock.
func (c *Camera) call(fn func(l *library, h uintptr) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.h == 0 {
		return ErrClosed
	}
	return fn(c.lib, c.h)
}

func (c *Camera) getInt(op string, get intGetter) (int32, error) {
	var v int32
	err := c.call(func(_ *library, h uintptr) error {
		return ensure(op, get(h, &v))
	})
	return v, err
}

func (c *Camera) putInt(op string, put intSetter, v int32) error {
	return c.call(func(_ *library, h uintptr) error {
		return ensure(op, put(h, v))
	})
}

func (c *Camera) getBool(op string, get intGetter) (bool, error) {
	v, err := c.getInt(op, get)
	return v != 0, err
}

func (c *Camera) info(op string, get infoGetter, n int) (string, error) {
	buf := make([]byte, n)
	err := c.call(func(_ *library, h uintptr) error {
		return ensure(op, get(h, &buf[0]))
	})
	if err != nil {
		return "", err
	}
	return cstring(buf)
}
