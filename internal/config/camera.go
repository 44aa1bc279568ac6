package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// CameraSettings is the [camera] table of the config file. Unset fields
// leave the camera's current value alone.
type CameraSettings struct {
	ResolutionIndex *uint32 `toml:"resolution_index,omitempty" json:"resolution_index,omitempty"`
	Raw             *bool   `toml:"raw,omitempty" json:"raw,omitempty"`
	RGB48           *bool   `toml:"rgb48,omitempty" json:"rgb48,omitempty"`
	BitDepth16      *bool   `toml:"bit_depth16,omitempty" json:"bit_depth16,omitempty"`
	RealTime        *bool   `toml:"realtime,omitempty" json:"realtime,omitempty"`

	AutoExposure       *bool   `toml:"auto_exposure,omitempty" json:"auto_exposure,omitempty"`
	AutoExposureTarget *uint16 `toml:"auto_exposure_target,omitempty" json:"auto_exposure_target,omitempty"`
	ExposureTime       *uint32 `toml:"exposure_us,omitempty" json:"exposure_us,omitempty"`
	ExposureGain       *uint16 `toml:"gain,omitempty" json:"gain,omitempty"`

	Hue        *int `toml:"hue,omitempty" json:"hue,omitempty"`
	Saturation *int `toml:"saturation,omitempty" json:"saturation,omitempty"`
	Brightness *int `toml:"brightness,omitempty" json:"brightness,omitempty"`
	Contrast   *int `toml:"contrast,omitempty" json:"contrast,omitempty"`
	Gamma      *int `toml:"gamma,omitempty" json:"gamma,omitempty"`

	HFlip    *bool   `toml:"hflip,omitempty" json:"hflip,omitempty"`
	VFlip    *bool   `toml:"vflip,omitempty" json:"vflip,omitempty"`
	Negative *bool   `toml:"negative,omitempty" json:"negative,omitempty"`
	Flicker  *string `toml:"flicker,omitempty" json:"flicker,omitempty" enum:"60hz,50hz,dc"`
	Speed    *uint16 `toml:"speed,omitempty" json:"speed,omitempty"`

	Fan         *bool    `toml:"fan,omitempty" json:"fan,omitempty"`
	Cooler      *bool    `toml:"cooler,omitempty" json:"cooler,omitempty"`
	Temperature *float64 `toml:"temperature_c,omitempty" json:"temperature_c,omitempty"`
}

// CameraSetter is the part of a camera that settings are applied to.
type CameraSetter interface {
	SetResolutionIndex(index uint32) error
	SetRaw(on bool) error
	SetRGB48(on bool) error
	SetBitDepth16(on bool) error
	SetRealTime(on bool) error
	SetAutoExposure(on bool) error
	SetAutoExposureTarget(target uint16) error
	SetExposureTime(us uint32) error
	SetExposureGain(gain uint16) error
	SetHue(v int) error
	SetSaturation(v int) error
	SetBrightness(v int) error
	SetContrast(v int) error
	SetGamma(v int) error
	SetHFlip(on bool) error
	SetVFlip(on bool) error
	SetNegative(on bool) error
	SetHZ(v int) error
	SetSpeed(v uint16) error
	SetFan(on bool) error
	SetCooler(on bool) error
	SetTemperature(t int16) error
}

// Flicker modes, matching the SDK's HZ values.
var flickerModes = map[string]int{"60hz": 0, "50hz": 1, "dc": 2}

// ErrInvalidSettings is wrapped by Validate failures.
var ErrInvalidSettings = errors.New("invalid camera settings")

// Validate checks values that can be checked without a camera.
func (s CameraSettings) Validate() error {
	if s.Flicker != nil {
		if _, ok := flickerModes[strings.ToLower(*s.Flicker)]; !ok {
			return fmt.Errorf("%w: flicker %q, want 60hz, 50hz or dc", ErrInvalidSettings, *s.Flicker)
		}
	}
	if s.Temperature != nil {
		if t := *s.Temperature * 10; t < math.MinInt16 || t > math.MaxInt16 {
			return fmt.Errorf("%w: temperature %.1f out of range", ErrInvalidSettings, *s.Temperature)
		}
	}
	return nil
}

// Merge returns s with every field set in o replacing its counterpart.
func (s CameraSettings) Merge(o CameraSettings) CameraSettings {
	out := s
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(o)
	for i := range src.NumField() {
		if f := src.Field(i); !f.IsNil() {
			dst.Field(i).Set(f)
		}
	}
	return out
}

// Apply pushes the set fields to cam. With live true, fields the SDK only
// accepts before capture starts (resolution, raw, RGB48, bit depth) are
// skipped. Apply stops at the first failing setter.
func (s CameraSettings) Apply(cam CameraSetter, live bool) error {
	if err := s.Validate(); err != nil {
		return err
	}
	type step struct {
		name  string
		set   bool
		still bool // only before capture
		apply func() error
	}
	steps := []step{
		{"resolution_index", s.ResolutionIndex != nil, true, func() error { return cam.SetResolutionIndex(*s.ResolutionIndex) }},
		{"raw", s.Raw != nil, true, func() error { return cam.SetRaw(*s.Raw) }},
		{"rgb48", s.RGB48 != nil, true, func() error { return cam.SetRGB48(*s.RGB48) }},
		{"bit_depth16", s.BitDepth16 != nil, true, func() error { return cam.SetBitDepth16(*s.BitDepth16) }},
		{"realtime", s.RealTime != nil, false, func() error { return cam.SetRealTime(*s.RealTime) }},
		{"auto_exposure", s.AutoExposure != nil, false, func() error { return cam.SetAutoExposure(*s.AutoExposure) }},
		{"auto_exposure_target", s.AutoExposureTarget != nil, false, func() error { return cam.SetAutoExposureTarget(*s.AutoExposureTarget) }},
		{"exposure_us", s.ExposureTime != nil, false, func() error { return cam.SetExposureTime(*s.ExposureTime) }},
		{"gain", s.ExposureGain != nil, false, func() error { return cam.SetExposureGain(*s.ExposureGain) }},
		{"hue", s.Hue != nil, false, func() error { return cam.SetHue(*s.Hue) }},
		{"saturation", s.Saturation != nil, false, func() error { return cam.SetSaturation(*s.Saturation) }},
		{"brightness", s.Brightness != nil, false, func() error { return cam.SetBrightness(*s.Brightness) }},
		{"contrast", s.Contrast != nil, false, func() error { return cam.SetContrast(*s.Contrast) }},
		{"gamma", s.Gamma != nil, false, func() error { return cam.SetGamma(*s.Gamma) }},
		{"hflip", s.HFlip != nil, false, func() error { return cam.SetHFlip(*s.HFlip) }},
		{"vflip", s.VFlip != nil, false, func() error { return cam.SetVFlip(*s.VFlip) }},
		{"negative", s.Negative != nil, false, func() error { return cam.SetNegative(*s.Negative) }},
		{"flicker", s.Flicker != nil, false, func() error { return cam.SetHZ(flickerModes[strings.ToLower(*s.Flicker)]) }},
		{"speed", s.Speed != nil, false, func() error { return cam.SetSpeed(*s.Speed) }},
		{"fan", s.Fan != nil, false, func() error { return cam.SetFan(*s.Fan) }},
		{"cooler", s.Cooler != nil, false, func() error { return cam.SetCooler(*s.Cooler) }},
		{"temperature_c", s.Temperature != nil, false, func() error { return cam.SetTemperature(int16(math.Round(*s.Temperature * 10))) }},
	}
	for _, st := range steps {
		if !st.set || (live && st.still) {
			continue
		}
		if err := st.apply(); err != nil {
			return fmt.Errorf("camera.%s: %w", st.name, err)
		}
	}
	return nil
}

type cameraFile struct {
	Camera CameraSettings `toml:"camera"`
}

// LoadCameraSettings reads the [camera] table of the file at path. A missing
// file yields empty settings.
func LoadCameraSettings(path string) (CameraSettings, error) {
	if path == "" {
		return CameraSettings{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return CameraSettings{}, nil
	}
	if err != nil {
		return CameraSettings{}, err
	}
	var f cameraFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return CameraSettings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := f.Camera.Validate(); err != nil {
		return CameraSettings{}, err
	}
	return f.Camera, nil
}

// SaveCameraSettings writes s as a standalone profile file, replacing it
// atomically.
func SaveCameraSettings(path string, s CameraSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(cameraFile{Camera: s})
	if err != nil {
		return fmt.Errorf("marshal camera settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".camera-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
