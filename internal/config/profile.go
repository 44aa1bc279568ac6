package config

import (
	"fmt"
	"sync"
)

// Profile holds the camera settings in effect and keeps the camera, and
// optionally a profile file, in step with them.
type Profile struct {
	mu      sync.Mutex
	cam     CameraSetter
	live    func() bool
	path    string
	current CameraSettings
}

// NewProfile tracks initial as the settings already applied to cam. Updates
// are persisted to path when it is non-empty. live reports whether capture
// is running, which restricts updates to the live subset.
func NewProfile(cam CameraSetter, initial CameraSettings, path string, live func() bool) *Profile {
	if live == nil {
		live = func() bool { return false }
	}
	return &Profile{cam: cam, live: live, path: path, current: initial}
}

// Current returns the settings in effect.
func (p *Profile) Current() CameraSettings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Update applies the set fields of patch and merges them into the current
// settings. Fields that cannot change during capture are rejected while
// capture is running.
func (p *Profile) Update(patch CameraSettings) (CameraSettings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	live := p.live()
	if live {
		if name := stillOnly(patch); name != "" {
			return p.current, fmt.Errorf("%w: %s cannot change during capture", ErrInvalidSettings, name)
		}
	}
	if err := patch.Apply(p.cam, live); err != nil {
		return p.current, err
	}
	next := p.current.Merge(patch)
	if p.path != "" {
		if err := SaveCameraSettings(p.path, next); err != nil {
			return p.current, fmt.Errorf("persist camera settings: %w", err)
		}
	}
	p.current = next
	return next, nil
}

// Reload applies s in full, as read back from the profile file.
func (p *Profile) Reload(s CameraSettings) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := s.Apply(p.cam, p.live()); err != nil {
		return err
	}
	p.current = s
	return nil
}

func stillOnly(s CameraSettings) string {
	switch {
	case s.ResolutionIndex != nil:
		return "resolution_index"
	case s.Raw != nil:
		return "raw"
	case s.RGB48 != nil:
		return "rgb48"
	case s.BitDepth16 != nil:
		return "bit_depth16"
	}
	return ""
}
