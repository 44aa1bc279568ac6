package toupcam

import (
	"fmt"
	"unsafe"
)

// ROI is a capture region of interest in sensor pixels.
type ROI struct {
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// LevelRange holds per-channel (R, G, B, Gray) low and high levels.
type LevelRange struct {
	Low  [4]uint16 `json:"low"`
	High [4]uint16 `json:"high"`
}

// SetSize selects the preview resolution by width and height.
func (c *Camera) SetSize(width, height int) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_Size", l.putSize(h, int32(width), int32(height)))
	})
}

// Size returns the current preview resolution.
func (c *Camera) Size() (Resolution, error) {
	var w, ht int32
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_Size", l.getSize(h, &w, &ht))
	})
	return Resolution{Width: uint32(w), Height: uint32(ht)}, err
}

// SetResolutionIndex selects the preview resolution by its index in the model table.
func (c *Camera) SetResolutionIndex(index uint32) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_eSize", l.putESize(h, index))
	})
}

func (c *Camera) ResolutionIndex() (uint32, error) {
	var idx uint32
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_eSize", l.getESize(h, &idx))
	})
	return idx, err
}

// ResolutionCount returns the number of preview resolutions.
func (c *Camera) ResolutionCount() (int, error) {
	var n int
	err := c.call(func(l *library, h uintptr) (err error) {
		n, err = count("get_ResolutionNumber", l.getResolutionNumber(h))
		return err
	})
	return n, err
}

func (c *Camera) Resolution(index uint32) (Resolution, error) {
	var w, ht int32
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_Resolution", l.getResolution(h, index, &w, &ht))
	})
	return Resolution{Width: uint32(w), Height: uint32(ht)}, err
}

// ResolutionRatio returns the binning ratio of a preview resolution as a fraction.
func (c *Camera) ResolutionRatio(index uint32) (num, den int, err error) {
	var n, d int32
	err = c.call(func(l *library, h uintptr) error {
		return ensure("get_ResolutionRatio", l.getResolutionRatio(h, index, &n, &d))
	})
	return int(n), int(d), err
}

// RawFormat returns the FourCC and bit depth of raw frames.
func (c *Camera) RawFormat() (fourcc, bitDepth uint32, err error) {
	err = c.call(func(l *library, h uintptr) error {
		return ensure("get_RawFormat", l.getRawFormat(h, &fourcc, &bitDepth))
	})
	return fourcc, bitDepth, err
}

func (c *Camera) StillResolutionCount() (int, error) {
	var n int
	err := c.call(func(l *library, h uintptr) (err error) {
		n, err = count("get_StillResolutionNumber", l.getStillResolutionNumber(h))
		return err
	})
	return n, err
}

func (c *Camera) StillResolution(index uint32) (Resolution, error) {
	var w, ht int32
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_StillResolution", l.getStillResolution(h, index, &w, &ht))
	})
	return Resolution{Width: uint32(w), Height: uint32(ht)}, err
}

// SetRealTime drops queued frames so the newest frame is always pulled.
func (c *Camera) SetRealTime(enable bool) error {
	return c.putInt("put_RealTime", c.lib.putRealTime, cbool(enable))
}

func (c *Camera) RealTime() (bool, error) {
	return c.getBool("get_RealTime", c.lib.getRealTime)
}

// Flush discards frames queued inside the driver.
func (c *Camera) Flush() error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("Flush", l.flush(h))
	})
}

// Temperature returns the sensor temperature in units of 0.1 degree Celsius.
func (c *Camera) Temperature() (int16, error) {
	var t int16
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_Temperature", l.getTemperature(h, &t))
	})
	return t, err
}

// SetTemperature sets the cooler target in units of 0.1 degree Celsius.
func (c *Camera) SetTemperature(t int16) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_Temperature", l.putTemperature(h, t))
	})
}

func (c *Camera) ROI() (ROI, error) {
	var r ROI
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_Roi", l.getRoi(h, &r.X, &r.Y, &r.Width, &r.Height))
	})
	return r, err
}

// SetROI crops capture to r. A zero ROI restores the full frame.
func (c *Camera) SetROI(r ROI) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_Roi", l.putRoi(h, r.X, r.Y, r.Width, r.Height))
	})
}

func (c *Camera) AutoExposure() (bool, error) {
	return c.getBool("get_AutoExpoEnable", c.lib.getAutoExpoEnable)
}

func (c *Camera) SetAutoExposure(enable bool) error {
	return c.putInt("put_AutoExpoEnable", c.lib.putAutoExpoEnable, cbool(enable))
}

func (c *Camera) AutoExposureTarget() (uint16, error) {
	var v uint16
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_AutoExpoTarget", l.getAutoExpoTarget(h, &v))
	})
	return v, err
}

func (c *Camera) SetAutoExposureTarget(target uint16) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_AutoExpoTarget", l.putAutoExpoTarget(h, target))
	})
}

// SetMaxAutoExposure bounds the exposure time (microseconds) and analog gain
// chosen by auto exposure.
func (c *Camera) SetMaxAutoExposure(maxTime uint32, maxGain uint16) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_MaxAutoExpoTimeAGain", l.putMaxAutoExpoTimeAGain(h, maxTime, maxGain))
	})
}

// ExposureTime returns the exposure time in microseconds.
func (c *Camera) ExposureTime() (uint32, error) {
	var v uint32
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_ExpoTime", l.getExpoTime(h, &v))
	})
	return v, err
}

// SetExposureTime sets the exposure time in microseconds. Values outside
// ExposureTimeRange are rejected by the driver.
func (c *Camera) SetExposureTime(us uint32) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_ExpoTime", l.putExpoTime(h, us))
	})
}

func (c *Camera) ExposureTimeRange() (Range[uint32], error) {
	var r Range[uint32]
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_ExpTimeRange", l.getExpTimeRange(h, &r.Min, &r.Max, &r.Default))
	})
	return r, err
}

// ExposureGain returns the analog gain in percent.
func (c *Camera) ExposureGain() (uint16, error) {
	var v uint16
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_ExpoAGain", l.getExpoAGain(h, &v))
	})
	return v, err
}

func (c *Camera) SetExposureGain(gain uint16) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_ExpoAGain", l.putExpoAGain(h, gain))
	})
}

func (c *Camera) ExposureGainRange() (Range[uint16], error) {
	var r Range[uint16]
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_ExpoAGainRange", l.getExpoAGainRange(h, &r.Min, &r.Max, &r.Default))
	})
	return r, err
}

func (c *Camera) LevelRange() (LevelRange, error) {
	var r LevelRange
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_LevelRange", l.getLevelRange(h, &r.Low, &r.High))
	})
	return r, err
}

func (c *Camera) SetLevelRange(r LevelRange) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_LevelRange", l.putLevelRange(h, &r.Low, &r.High))
	})
}

// Color adjustments. Ranges are fixed by the SDK: hue -180..180,
// saturation 0..255, brightness -64..64, contrast -100..100, gamma 20..180.

func (c *Camera) Hue() (int, error) {
	return c.getColor("get_Hue", c.lib.getHue)
}

func (c *Camera) SetHue(v int) error {
	return c.putInt("put_Hue", c.lib.putHue, int32(v))
}

func (c *Camera) Saturation() (int, error) {
	return c.getColor("get_Saturation", c.lib.getSaturation)
}

func (c *Camera) SetSaturation(v int) error {
	return c.putInt("put_Saturation", c.lib.putSaturation, int32(v))
}

func (c *Camera) Brightness() (int, error) {
	return c.getColor("get_Brightness", c.lib.getBrightness)
}

func (c *Camera) SetBrightness(v int) error {
	return c.putInt("put_Brightness", c.lib.putBrightness, int32(v))
}

func (c *Camera) Contrast() (int, error) {
	return c.getColor("get_Contrast", c.lib.getContrast)
}

func (c *Camera) SetContrast(v int) error {
	return c.putInt("put_Contrast", c.lib.putContrast, int32(v))
}

func (c *Camera) Gamma() (int, error) {
	return c.getColor("get_Gamma", c.lib.getGamma)
}

func (c *Camera) SetGamma(v int) error {
	return c.putInt("put_Gamma", c.lib.putGamma, int32(v))
}

func (c *Camera) getColor(op string, get intGetter) (int, error) {
	v, err := c.getInt(op, get)
	return int(v), err
}

// Chrome reports whether monochrome rendering is enabled on a color sensor.
func (c *Camera) Chrome() (bool, error) {
	return c.getBool("get_Chrome", c.lib.getChrome)
}

func (c *Camera) SetChrome(on bool) error {
	return c.putInt("put_Chrome", c.lib.putChrome, cbool(on))
}

func (c *Camera) VFlip() (bool, error) {
	return c.getBool("get_VFlip", c.lib.getVFlip)
}

func (c *Camera) SetVFlip(on bool) error {
	return c.putInt("put_VFlip", c.lib.putVFlip, cbool(on))
}

func (c *Camera) HFlip() (bool, error) {
	return c.getBool("get_HFlip", c.lib.getHFlip)
}

func (c *Camera) SetHFlip(on bool) error {
	return c.putInt("put_HFlip", c.lib.putHFlip, cbool(on))
}

func (c *Camera) Negative() (bool, error) {
	return c.getBool("get_Negative", c.lib.getNegative)
}

func (c *Camera) SetNegative(on bool) error {
	return c.putInt("put_Negative", c.lib.putNegative, cbool(on))
}

// Speed returns the frame speed level, 0 to MaxSpeed.
func (c *Camera) Speed() (uint16, error) {
	var v uint16
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_Speed", l.getSpeed(h, &v))
	})
	return v, err
}

func (c *Camera) SetSpeed(v uint16) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_Speed", l.putSpeed(h, v))
	})
}

func (c *Camera) MaxSpeed() (int, error) {
	var n int
	err := c.call(func(l *library, h uintptr) (err error) {
		n, err = count("get_MaxSpeed", l.getMaxSpeed(h))
		return err
	})
	return n, err
}

func (c *Camera) MaxBitDepth() (int, error) {
	var n int
	err := c.call(func(l *library, h uintptr) (err error) {
		n, err = count("get_MaxBitDepth", l.getMaxBitDepth(h))
		return err
	})
	return n, err
}

// HZ returns the flicker compensation mode: HZ60AC, HZ50AC or HZDC.
func (c *Camera) HZ() (int, error) {
	v, err := c.getInt("get_HZ", c.lib.getHZ)
	return int(v), err
}

func (c *Camera) SetHZ(v int) error {
	return c.putInt("put_HZ", c.lib.putHZ, int32(v))
}

// Skip reports whether the sensor samples by skipping instead of binning.
func (c *Camera) Skip() (bool, error) {
	return c.getBool("get_Mode", c.lib.getMode)
}

func (c *Camera) SetSkip(skip bool) error {
	return c.putInt("put_Mode", c.lib.putMode, cbool(skip))
}

// TempTint returns the white balance as color temperature and tint.
func (c *Camera) TempTint() (temp, tint int, err error) {
	var t, n int32
	err = c.call(func(l *library, h uintptr) error {
		return ensure("get_TempTint", l.getTempTint(h, &t, &n))
	})
	return int(t), int(n), err
}

func (c *Camera) SetTempTint(temp, tint int) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_TempTint", l.putTempTint(h, int32(temp), int32(tint)))
	})
}

// WhiteBalanceGain returns the R, G, B gains used in RGB gain white balance mode.
func (c *Camera) WhiteBalanceGain() ([3]int32, error) {
	var g [3]int32
	err := c.call(func(l *library, h uintptr) error {
		return ensure("get_WhiteBalanceGain", l.getWhiteBalanceGain(h, &g))
	})
	return g, err
}

func (c *Camera) SetWhiteBalanceGain(g [3]int32) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_WhiteBalanceGain", l.putWhiteBalanceGain(h, &g))
	})
}

// AWBAuxRect returns the white balance metering rectangle.
func (c *Camera) AWBAuxRect() (Rect, error) {
	return c.rect("get_AWBAuxRect", c.lib.getAWBAuxRect)
}

func (c *Camera) SetAWBAuxRect(r Rect) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_AWBAuxRect", l.putAWBAuxRect(h, &r))
	})
}

// AEAuxRect returns the auto exposure metering rectangle.
func (c *Camera) AEAuxRect() (Rect, error) {
	return c.rect("get_AEAuxRect", c.lib.getAEAuxRect)
}

func (c *Camera) SetAEAuxRect(r Rect) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_AEAuxRect", l.putAEAuxRect(h, &r))
	})
}

func (c *Camera) rect(op string, get rectGetter) (Rect, error) {
	var r Rect
	err := c.call(func(_ *library, h uintptr) error {
		return ensure(op, get(h, &r))
	})
	return r, err
}

// Mono reports whether the sensor is monochrome. The driver answers with
// S_OK for mono and S_FALSE for color.
func (c *Camera) Mono() (bool, error) {
	var mono bool
	err := c.call(func(l *library, h uintptr) error {
		switch hr := HRESULT(uint32(l.getMonoMode(h))); hr {
		case SOK:
			mono = true
		case SFalse:
			mono = false
		default:
			return &OpError{Op: "get_MonoMode", Code: hr}
		}
		return nil
	})
	return mono, err
}

func (c *Camera) SerialNumber() (string, error) {
	return c.info("get_SerialNumber", c.lib.getSerialNumber, serialNumberLen)
}

func (c *Camera) FirmwareVersion() (string, error) {
	return c.info("get_FwVersion", c.lib.getFwVersion, fwVersionLen)
}

func (c *Camera) HardwareVersion() (string, error) {
	return c.info("get_HwVersion", c.lib.getHwVersion, hwVersionLen)
}

// ProductionDate returns the production date as yyyymmdd.
func (c *Camera) ProductionDate() (string, error) {
	return c.info("get_ProductionDate", c.lib.getProductionDate, productionDateLen)
}

// AwbOnePush runs a single temp/tint white balance. The result is announced
// by an EventTempTint during capture.
func (c *Camera) AwbOnePush() error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("AwbOnePush", l.awbOnePush(h, 0, 0))
	})
}

// AwbInit runs RGB gain white balance initialization.
func (c *Camera) AwbInit() error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("AwbInit", l.awbInit(h, 0, 0))
	})
}

// LevelRangeAuto runs a single automatic level range adjustment.
func (c *Camera) LevelRangeAuto() error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("LevelRangeAuto", l.levelRangeAuto(h))
	})
}

// SetLEDState sets LED led to LEDOff, LEDOn or LEDFlash. period is the flash
// period in milliseconds and is ignored otherwise.
func (c *Camera) SetLEDState(led, state, period uint16) error {
	return c.call(func(l *library, h uintptr) error {
		return ensure("put_LEDState", l.putLEDState(h, led, state, period))
	})
}

// ReadEEPROM reads len(buf) bytes at addr and returns the byte count reported
// by the driver. The caller is responsible for addr and len(buf) lying within
// the EEPROM.
func (c *Camera) ReadEEPROM(addr uint32, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var n int
	err := c.call(func(l *library, h uintptr) (err error) {
		n, err = count("read_EEPROM", l.readEEPROM(h, addr, unsafe.Pointer(&buf[0]), uint32(len(buf))))
		return err
	})
	return n, err
}

// WriteEEPROM writes data at addr and returns the byte count reported by the
// driver. Bounds are the caller's responsibility, as for ReadEEPROM.
func (c *Camera) WriteEEPROM(addr uint32, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	var n int
	err := c.call(func(l *library, h uintptr) (err error) {
		n, err = count("write_EEPROM", l.writeEEPROM(h, addr, unsafe.Pointer(&data[0]), uint32(len(data))))
		return err
	})
	return n, err
}

// ClarityFactor computes the focus sharpness score of a processed frame.
func (c *Camera) ClarityFactor(img *Image) (float64, error) {
	if img.Raw {
		return 0, fmt.Errorf("toupcam: clarity factor of raw frame: %w", ErrUnsupportedBits)
	}
	want, err := BufferSize(img.Bits, img.Resolution.Width, img.Resolution.Height, false, img.RGB48)
	if err != nil {
		return 0, err
	}
	if len(img.Data) < want {
		return 0, fmt.Errorf("toupcam: clarity factor: frame has %d bytes, want %d", len(img.Data), want)
	}
	var f float64
	err = c.call(func(l *library, _ uintptr) error {
		f = l.calcClarityFactor(unsafe.Pointer(&img.Data[0]), int32(img.Bits), img.Resolution.Width, img.Resolution.Height)
		return nil
	})
	return f, err
}
