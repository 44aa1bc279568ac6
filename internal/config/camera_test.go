package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type recordingCamera struct {
	calls []string
	fail  string
}

func (r *recordingCamera) rec(name string) error {
	r.calls = append(r.calls, name)
	if name == r.fail {
		return errors.New("E_INVALIDARG")
	}
	return nil
}

func (r *recordingCamera) SetResolutionIndex(uint32) error { return r.rec("resolution") }
func (r *recordingCamera) SetRaw(bool) error { return r.rec("raw") }
func (r *recordingCamera) SetRGB48(bool) error { return r.rec("rgb48") }
func (r *recordingCamera) SetBitDepth16(bool) error { return r.rec("bitdepth") }
func (r *recordingCamera) SetRealTime(bool) error { return r.rec("realtime") }
func (r *recordingCamera) SetAutoExposure(bool) error { return r.rec("autoexpo") }
func (r *recordingCamera) SetAutoExposureTarget(uint16) error { return r.rec("target") }
func (r *recordingCamera) SetExposureTime(uint32) error { return r.rec("exposure") }
func (r *recordingCamera) SetExposureGain(uint16) error { return r.rec("gain") }
func (r *recordingCamera) SetHue(int) error { return r.rec("hue") }
func (r *recordingCamera) SetSaturation(int) error { return r.rec("saturation") }
func (r *recordingCamera) SetBrightness(int) error { return r.rec("brightness") }
func (r *recordingCamera) SetContrast(int) error { return r.rec("contrast") }
func (r *recordingCamera) SetGamma(int) error { return r.rec("gamma") }
func (r *recordingCamera) SetHFlip(bool) error { return r.rec("hflip") }
func (r *recordingCamera) SetVFlip(bool) error { return r.rec("vflip") }
func (r *recordingCamera) SetNegative(bool) error { return r.rec("negative") }
func (r *recordingCamera) SetHZ(int) error { return r.rec("hz") }
func (r *recordingCamera) SetSpeed(uint16) error { return r.rec("speed") }
func (r *recordingCamera) SetFan(bool) error { return r.rec("fan") }
func (r *recordingCamera) SetCooler(bool) error { return r.rec("cooler") }
func (r *recordingCamera) SetTemperature(int16) error { return r.rec("temperature") }

func ptr[T any](v T) *T { return &v }

func TestLoadCameraSettings(t *testing.T) {
	path := writeFile(t, `
[camera]
resolution_index = 1
raw = false
exposure_us = 20000
gain = 150
hue = -20
flicker = "50hz"
temperature_c = -5.5

[server]
port = 1
`)
	s, err := LoadCameraSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	want := CameraSettings{
		ResolutionIndex: ptr(uint32(1)),
		Raw:             ptr(false),
		ExposureTime:    ptr(uint32(20000)),
		ExposureGain:    ptr(uint16(150)),
		Hue:             ptr(-20),
		Flicker:         ptr("50hz"),
		Temperature:     ptr(-5.5),
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("LoadCameraSettings() = %+v, want %+v", s, want)
	}
}

func TestLoadCameraSettingsMissingAndInvalid(t *testing.T) {
	s, err := LoadCameraSettings(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil || !reflect.DeepEqual(s, CameraSettings{}) {
		t.Errorf("missing file = %+v, %v", s, err)
	}
	_, err = LoadCameraSettings(writeFile(t, "[camera]\nflicker = \"100hz\"\n"))
	if !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("invalid flicker error = %v", err)
	}
}

func TestApplyOrderAndLiveSubset(t *testing.T) {
	s := CameraSettings{
		ResolutionIndex: ptr(uint32(0)),
		Raw:             ptr(true),
		ExposureTime:    ptr(uint32(1000)),
		Flicker:         ptr("DC"),
		Temperature:     ptr(-10.0),
	}

	cam := &recordingCamera{}
	if err := s.Apply(cam, false); err != nil {
		t.Fatal(err)
	}
	if want := []string{"resolution", "raw", "exposure", "hz", "temperature"}; !reflect.DeepEqual(cam.calls, want) {
		t.Errorf("Apply(idle) calls = %v, want %v", cam.calls, want)
	}

	cam = &recordingCamera{}
	if err := s.Apply(cam, true); err != nil {
		t.Fatal(err)
	}
	if want := []string{"exposure", "hz", "temperature"}; !reflect.DeepEqual(cam.calls, want) {
		t.Errorf("Apply(live) calls = %v, want %v", cam.calls, want)
	}
}

func TestApplyStopsAtFirstError(t *testing.T) {
	s := CameraSettings{ExposureTime: ptr(uint32(1)), Hue: ptr(1), Gamma: ptr(100)}
	cam := &recordingCamera{fail: "hue"}
	err := s.Apply(cam, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "camera.hue: E_INVALIDARG" {
		t.Errorf("error = %q", got)
	}
	if len(cam.calls) != 2 {
		t.Errorf("calls after failure = %v", cam.calls)
	}
}

func TestMerge(t *testing.T) {
	base := CameraSettings{ExposureTime: ptr(uint32(100)), Hue: ptr(5)}
	patch := CameraSettings{Hue: ptr(-5), VFlip: ptr(true)}
	got := base.Merge(patch)
	if *got.ExposureTime != 100 || *got.Hue != -5 || !*got.VFlip {
		t.Errorf("Merge() = %+v", got)
	}
	if *base.Hue != 5 {
		t.Error("Merge modified the receiver")
	}
}

func TestSaveCameraSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles", "bench.toml")
	want := CameraSettings{ExposureGain: ptr(uint16(300)), HFlip: ptr(true), Flicker: ptr("60hz")}
	if err := SaveCameraSettings(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCameraSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
