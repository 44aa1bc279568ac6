package toupcam

import (
	"errors"
	"testing"
)

func twoCameras() *fakeSDK {
	return newFakeSDK(
		fakeCam{id: "tp-usb-0001", name: "E3ISPM08300KPA", model: testModel(3, 2)},
		fakeCam{id: "tp-usb-0002", name: "GCMOS01200KMA", model: testModel(4, 0)},
	)
}

func TestEnumerate(t *testing.T) {
	f := twoCameras()
	got, err := enumerate(f.library())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("enumerate() = %d instances, want 2", len(got))
	}
	if got[0].ID != "tp-usb-0001" || got[0].DisplayName != "E3ISPM08300KPA" {
		t.Errorf("instance 0 = %+v", got[0])
	}
	if got[0].Model.Name != "E3ISPM08300KPA" {
		t.Errorf("model name = %q", got[0].Model.Name)
	}
	if !got[0].Model.Flags.Has(FlagCMOS | FlagUSB30) {
		t.Errorf("flags = %v", got[0].Model.Flags)
	}
	if len(got[0].Model.PreviewResolutions) != 3 || len(got[0].Model.StillResolutions) != 2 {
		t.Errorf("resolution split = %d/%d, want 3/2",
			len(got[0].Model.PreviewResolutions), len(got[0].Model.StillResolutions))
	}
	if len(got[1].Model.StillResolutions) != 0 {
		t.Errorf("camera without still resolutions reported %d", len(got[1].Model.StillResolutions))
	}
}

func TestEnumerateClampsCount(t *testing.T) {
	cams := make([]fakeCam, MaxInstances)
	for i := range cams {
		cams[i] = fakeCam{id: string(rune('a' + i)), name: "cam", model: testModel(1, 1)}
	}
	f := newFakeSDK(cams...)
	f.reported = 40

	got, err := enumerate(f.library())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != MaxInstances {
		t.Errorf("enumerate() = %d instances, want %d", len(got), MaxInstances)
	}
}

func TestEnumerateEmpty(t *testing.T) {
	got, err := enumerate(newFakeSDK().library())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("enumerate() = %v, want none", got)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "first camera", id: ""},
		{name: "by id", id: "tp-usb-0002"},
		{name: "unknown id", id: "tp-usb-9999", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := twoCameras()
			cam, err := open(f.library(), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("open(%q) error = %v, want %v", tt.id, err, tt.wantErr)
				}
				if cam != nil {
					t.Error("open() returned a camera on failure")
				}
				if n := f.openHandles(); n != 0 {
					t.Errorf("open handles after failure = %d, want 0", n)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if f.openHandles() != 1 {
				t.Errorf("open handles = %d, want 1", f.openHandles())
			}
			if tt.id == "" && !f.nilOpen {
				t.Error("empty id should pass a NULL pointer")
			}
			if err := cam.Close(); err != nil {
				t.Fatal(err)
			}
			if f.openHandles() != 0 {
				t.Error("handle not released by Close")
			}
		})
	}
}

func TestOpenNoCameras(t *testing.T) {
	_, err := open(newFakeSDK().library(), "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("open() error = %v, want ErrNotFound", err)
	}
}

func TestClosedCamera(t *testing.T) {
	f := twoCameras()
	cam, err := open(f.library(), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := cam.Close(); err != nil {
		t.Fatal(err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if f.closes != 1 {
		t.Errorf("native close called %d times, want 1", f.closes)
	}

	calls := map[string]func() error{
		"ExposureTime":  func() error { _, err := cam.ExposureTime(); return err },
		"SetExposure":   func() error { return cam.SetExposureTime(1000) },
		"Hue":           func() error { _, err := cam.Hue(); return err },
		"SetOption":     func() error { return cam.SetRaw(true) },
		"PullImage":     func() error { _, err := cam.PullImage(24); return err },
		"Snap":          func() error { return cam.SnapIndex(0) },
		"SerialNumber":  func() error { _, err := cam.SerialNumber(); return err },
		"ReadEEPROM":    func() error { _, err := cam.ReadEEPROM(0, make([]byte, 4)); return err },
		"Start":         func() error { return cam.Start(func(<-chan Event) error { return nil }) },
		"SetLEDState":   func() error { return cam.SetLEDState(0, LEDOn, 0) },
		"ResolutionCnt": func() error { _, err := cam.StillResolutionCount(); return err },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, ErrClosed) {
			t.Errorf("%s after Close = %v, want ErrClosed", name, err)
		}
	}
}

func TestExposureRoundTrip(t *testing.T) {
	f := twoCameras()
	cam, err := open(f.library(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	r, err := cam.ExposureTimeRange()
	if err != nil {
		t.Fatal(err)
	}
	if r != f.expoRange {
		t.Errorf("ExposureTimeRange() = %+v, want %+v", r, f.expoRange)
	}
	for _, us := range []uint32{r.Min, r.Default, 33333, r.Max} {
		if err := cam.SetExposureTime(us); err != nil {
			t.Fatalf("SetExposureTime(%d) = %v", us, err)
		}
		got, err := cam.ExposureTime()
		if err != nil {
			t.Fatal(err)
		}
		if got != us {
			t.Errorf("ExposureTime() = %d, want %d", got, us)
		}
	}

	err = cam.SetExposureTime(r.Max + 1)
	if !errors.Is(err, EInvalidArg) {
		t.Errorf("SetExposureTime(out of range) = %v, want E_INVALIDARG", err)
	}
	var op *OpError
	if !errors.As(err, &op) || op.Op != "put_ExpoTime" {
		t.Errorf("error = %#v, want *OpError for put_ExpoTime", err)
	}
	if got, _ := cam.ExposureTime(); got != r.Max {
		t.Errorf("rejected set changed exposure to %d", got)
	}
}

func TestGainRoundTrip(t *testing.T) {
	cam, err := open(twoCameras().library(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	r, err := cam.ExposureGainRange()
	if err != nil {
		t.Fatal(err)
	}
	if err := cam.SetExposureGain(r.Max); err != nil {
		t.Fatal(err)
	}
	if got, _ := cam.ExposureGain(); got != r.Max {
		t.Errorf("ExposureGain() = %d, want %d", got, r.Max)
	}
	if err := cam.SetExposureGain(r.Min - 1); !errors.Is(err, EInvalidArg) {
		t.Errorf("SetExposureGain(below min) = %v", err)
	}
}

func TestColorAndFlipRoundTrip(t *testing.T) {
	cam, err := open(twoCameras().library(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	ints := []struct {
		name string
		set  func(int) error
		get  func() (int, error)
		v    int
	}{
		{"hue", cam.SetHue, cam.Hue, -45},
		{"saturation", cam.SetSaturation, cam.Saturation, 200},
		{"brightness", cam.SetBrightness, cam.Brightness, -12},
		{"contrast", cam.SetContrast, cam.Contrast, 30},
		{"gamma", cam.SetGamma, cam.Gamma, 120},
		{"hz", cam.SetHZ, cam.HZ, HZ50AC},
	}
	for _, tt := range ints {
		if err := tt.set(tt.v); err != nil {
			t.Fatalf("set %s: %v", tt.name, err)
		}
		if got, err := tt.get(); err != nil || got != tt.v {
			t.Errorf("%s = %d, %v; want %d", tt.name, got, err, tt.v)
		}
	}

	bools := []struct {
		name string
		set  func(bool) error
		get  func() (bool, error)
	}{
		{"vflip", cam.SetVFlip, cam.VFlip},
		{"hflip", cam.SetHFlip, cam.HFlip},
		{"negative", cam.SetNegative, cam.Negative},
		{"chrome", cam.SetChrome, cam.Chrome},
		{"skip", cam.SetSkip, cam.Skip},
		{"auto exposure", cam.SetAutoExposure, cam.AutoExposure},
		{"realtime", cam.SetRealTime, cam.RealTime},
		{"raw", cam.SetRaw, cam.Raw},
		{"rgb48", cam.SetRGB48, cam.RGB48},
		{"trigger", cam.SetTriggerMode, cam.TriggerMode},
	}
	for _, tt := range bools {
		for _, v := range []bool{true, false} {
			if err := tt.set(v); err != nil {
				t.Fatalf("set %s: %v", tt.name, err)
			}
			if got, err := tt.get(); err != nil || got != v {
				t.Errorf("%s = %v, %v; want %v", tt.name, got, err, v)
			}
		}
	}
}

func TestLevelRangeRoundTrip(t *testing.T) {
	cam, err := open(twoCameras().library(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	want := LevelRange{Low: [4]uint16{1, 2, 3, 4}, High: [4]uint16{250, 251, 252, 253}}
	if err := cam.SetLevelRange(want); err != nil {
		t.Fatal(err)
	}
	got, err := cam.LevelRange()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("LevelRange() = %+v, want %+v", got, want)
	}
}

func TestCountResults(t *testing.T) {
	cam, err := open(twoCameras().library(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	if n, err := cam.MaxSpeed(); err != nil || n != 3 {
		t.Errorf("MaxSpeed() = %d, %v", n, err)
	}
	if _, err := cam.MaxBitDepth(); !errors.Is(err, ENotImpl) {
		t.Errorf("MaxBitDepth() error = %v, want E_NOTIMPL", err)
	}
	mono, err := cam.Mono()
	if err != nil || mono {
		t.Errorf("Mono() = %v, %v; want color camera", mono, err)
	}
}

func TestInfoStrings(t *testing.T) {
	f := twoCameras()
	cam, err := open(f.library(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	sn, err := cam.SerialNumber()
	if err != nil {
		t.Fatal(err)
	}
	if sn != f.serial {
		t.Errorf("SerialNumber() = %q, want %q", sn, f.serial)
	}

	// fake firmware string carries invalid UTF-8
	var de *DecodeError
	if _, err := cam.FirmwareVersion(); !errors.As(err, &de) {
		t.Errorf("FirmwareVersion() error = %v, want *DecodeError", err)
	}
}

func TestEEPROM(t *testing.T) {
	f := twoCameras()
	cam, err := open(f.library(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	n, err := cam.WriteEEPROM(8, []byte{0xde, 0xad, 0xbe, 0xef})
	if err != nil || n != 4 {
		t.Fatalf("WriteEEPROM() = %d, %v", n, err)
	}
	buf := make([]byte, 4)
	n, err = cam.ReadEEPROM(8, buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadEEPROM() = %d, %v", n, err)
	}
	if buf[0] != 0xde || buf[3] != 0xef {
		t.Errorf("ReadEEPROM() = % x", buf)
	}
	if _, err := cam.ReadEEPROM(62, buf); !errors.Is(err, EInvalidArg) {
		t.Errorf("ReadEEPROM(past end) = %v, want E_INVALIDARG", err)
	}
	if n, err := cam.ReadEEPROM(0, nil); n != 0 || err != nil {
		t.Errorf("ReadEEPROM(empty) = %d, %v", n, err)
	}
}

func TestSetLEDState(t *testing.T) {
	f := twoCameras()
	cam, err := open(f.library(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer cam.Close()

	if err := cam.SetLEDState(1, LEDFlash, 500); err != nil {
		t.Fatal(err)
	}
	if f.led != [3]uint16{1, LEDFlash, 500} {
		t.Errorf("led = %v", f.led)
	}
}

func TestHRESULT(t *testing.T) {
	tests := []struct {
		code      HRESULT
		name      string
		failed    bool
		succeeded bool
	}{
		{SOK, "S_OK", false, true},
		{SFalse, "S_FALSE", false, true},
		{EFail, "E_FAIL", true, false},
		{ENotImpl, "E_NOTIMPL", true, false},
		{EUnexpected, "E_UNEXPECTED", true, false},
		{HRESULT(0x80040001), "HRESULT(0x80040001)", true, false},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if tt.code.Failed() != tt.failed || tt.code.Succeeded() != tt.succeeded {
			t.Errorf("%s: Failed=%v Succeeded=%v", tt.name, tt.code.Failed(), tt.code.Succeeded())
		}
		err := ensure("op", hr(tt.code))
		if tt.succeeded != (err == nil) {
			t.Errorf("ensure(%s) = %v", tt.name, err)
		}
	}
}

func TestFlagsString(t *testing.T) {
	f := FlagCMOS | FlagMono | FlagTrigger | Flags(0x40000000)
	if got, want := f.String(), "cmos|mono|trigger|0x40000000"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Flags(0).String(); got != "" {
		t.Errorf("zero flags = %q", got)
	}
}
