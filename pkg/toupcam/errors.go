package toupcam

import (
	"errors"
	"fmt"
)

// HRESULT is a native result code.
type HRESULT uint32

var hresultNames = map[HRESULT]string{
	SOK:         "S_OK",
	SFalse:      "S_FALSE",
	EFail:       "E_FAIL",
	EInvalidArg: "E_INVALIDARG",
	ENotImpl:    "E_NOTIMPL",
	EPointer:    "E_POINTER",
	EUnexpected: "E_UNEXPECTED",
}

func (hr HRESULT) String() string {
	if name, ok := hresultNames[hr]; ok {
		return name
	}
	return fmt.Sprintf("HRESULT(0x%08X)", uint32(hr))
}

// Error implements error so codes can be matched with errors.Is.
func (hr HRESULT) Error() string {
	return hr.String()
}

// Failed reports whether the failure bit is set.
func (hr HRESULT) Failed() bool {
	return int32(hr) < 0
}

// Succeeded reports whether hr is one of the two accepted success codes.
func (hr HRESULT) Succeeded() bool {
	return hr == SOK || hr == SFalse
}

var (
	// ErrNotFound is returned by Open when no camera matches the id.
	ErrNotFound = errors.New("toupcam: camera not found")
	// ErrClosed is returned by every Camera method after Close.
	ErrClosed = errors.New("toupcam: camera closed")
	// ErrCapturing is returned when a capture session is already active.
	ErrCapturing = errors.New("toupcam: capture already started")
	// ErrUnsupportedBits is returned for a bit depth outside 8, 24, 32 and 48.
	ErrUnsupportedBits = errors.New("toupcam: unsupported bit depth")
	// ErrResolutionNotFound is returned by Snap when the resolution is not a still resolution.
	ErrResolutionNotFound = errors.New("toupcam: still resolution not found")
	// ErrUnsupportedPlatform is returned when the SDK cannot be loaded on this OS.
	ErrUnsupportedPlatform = errors.New("toupcam: platform not supported")
)

// OpError records a native call that returned a failure code.
type OpError struct {
	Op   string
	Code HRESULT
}

func (e *OpError) Error() string {
	return fmt.Sprintf("toupcam: %s: %s", e.Op, e.Code)
}

// Unwrap returns the result code.
func (e *OpError) Unwrap() error {
	return e.Code
}

// DecodeError is returned when a native text buffer is not valid UTF-8.
type DecodeError struct {
	Bytes []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("toupcam: invalid UTF-8 in native string %q", e.Bytes)
}

// ensure accepts S_OK and S_FALSE and turns every other code into an *OpError.
func ensure(op string, r int32) error {
	hr := HRESULT(uint32(r))
	if hr.Succeeded() {
		return nil
	}
	return &OpError{Op: op, Code: hr}
}

// count interprets a call that returns a non-negative count or a failure code.
func count(op string, r int32) (int, error) {
	if r < 0 {
		return 0, &OpError{Op: op, Code: HRESULT(uint32(r))}
	}
	return int(r), nil
}
