package toupcam

import (
	"sync"
	"unsafe"
)

type (
	intGetter  func(h uintptr, v *int32) int32
	intSetter  func(h uintptr, v int32) int32
	infoGetter func(h uintptr, buf *byte) int32
	rectGetter func(h uintptr, r *Rect) int32
)

// library is the table of bound entry points, one field per native symbol.
type library struct {
	dl uintptr

	// trampolines created once per process
	eventCallback   uintptr
	hotplugCallback uintptr

	version func() *byte
	enum    func(pti unsafe.Pointer) uint32
	open    func(id *byte) uintptr
	close   func(h uintptr)

	startPullModeWithCallback func(h, cb, ctx uintptr) int32
	pullImage                 func(h uintptr, data unsafe.Pointer, bits int32, width, height *uint32) int32
	pullStillImage            func(h uintptr, data unsafe.Pointer, bits int32, width, height *uint32) int32
	stop                      func(h uintptr) int32
	pause                     func(h uintptr, pause int32) int32
	snap                      func(h uintptr, index uint32) int32
	trigger                   func(h uintptr) int32

	putSize             func(h uintptr, width, height int32) int32
	getSize             func(h uintptr, width, height *int32) int32
	putESize            func(h uintptr, index uint32) int32
	getESize            func(h uintptr, index *uint32) int32
	getResolutionNumber func(h uintptr) int32
	getResolution       func(h uintptr, index uint32, width, height *int32) int32
	getResolutionRatio  func(h uintptr, index uint32, num, den *int32) int32
	getRawFormat        func(h uintptr, fourcc, bitdepth *uint32) int32

	putRealTime    func(h uintptr, enable int32) int32
	getRealTime    intGetter
	flush          func(h uintptr) int32
	getTemperature func(h uintptr, t *int16) int32
	putTemperature func(h uintptr, t int16) int32
	getRoi         func(h uintptr, x, y, width, height *uint32) int32
	putRoi         func(h uintptr, x, y, width, height uint32) int32

	getAutoExpoEnable       intGetter
	putAutoExpoEnable       intSetter
	getAutoExpoTarget       func(h uintptr, target *uint16) int32
	putAutoExpoTarget       func(h uintptr, target uint16) int32
	putMaxAutoExpoTimeAGain func(h uintptr, maxTime uint32, maxGain uint16) int32
	getExpoTime             func(h uintptr, us *uint32) int32
	putExpoTime             func(h uintptr, us uint32) int32
	getExpTimeRange         func(h uintptr, lo, hi, def *uint32) int32
	getExpoAGain            func(h uintptr, gain *uint16) int32
	putExpoAGain            func(h uintptr, gain uint16) int32
	getExpoAGainRange       func(h uintptr, lo, hi, def *uint16) int32

	putLevelRange func(h uintptr, low, high *[4]uint16) int32
	getLevelRange func(h uintptr, low, high *[4]uint16) int32

	putHue, putSaturation, putBrightness, putContrast, putGamma intSetter
	getHue, getSaturation, getBrightness, getContrast, getGamma intGetter
	putChrome, putVFlip, putHFlip, putNegative                  intSetter
	getChrome, getVFlip, getHFlip, getNegative                  intGetter

	putSpeed       func(h uintptr, speed uint16) int32
	getSpeed       func(h uintptr, speed *uint16) int32
	getMaxSpeed    func(h uintptr) int32
	getMaxBitDepth func(h uintptr) int32
	putHZ          intSetter
	getHZ          intGetter
	putMode        intSetter
	getMode        intGetter

	putTempTint         func(h uintptr, temp, tint int32) int32
	getTempTint         func(h uintptr, temp, tint *int32) int32
	putWhiteBalanceGain func(h uintptr, gain *[3]int32) int32
	getWhiteBalanceGain func(h uintptr, gain *[3]int32) int32
	putAWBAuxRect       func(h uintptr, r *Rect) int32
	getAWBAuxRect       rectGetter
	putAEAuxRect        func(h uintptr, r *Rect) int32
	getAEAuxRect        rectGetter
	getMonoMode         func(h uintptr) int32

	getStillResolutionNumber func(h uintptr) int32
	getStillResolution       func(h uintptr, index uint32, width, height *int32) int32

	getSerialNumber   infoGetter
	getFwVersion      infoGetter
	getHwVersion      infoGetter
	getProductionDate infoGetter

	awbOnePush     func(h, cb, ctx uintptr) int32
	awbInit        func(h, cb, ctx uintptr) int32
	levelRangeAuto func(h uintptr) int32

	putLEDState func(h uintptr, led, state, period uint16) int32
	writeEEPROM func(h uintptr, addr uint32, data unsafe.Pointer, n uint32) int32
	readEEPROM  func(h uintptr, addr uint32, buf unsafe.Pointer, n uint32) int32
	putOption   func(h uintptr, option uint32, value int32) int32
	getOption   func(h uintptr, option uint32, value *int32) int32

	calcClarityFactor func(data unsafe.Pointer, bits int32, width, height uint32) float64

	// optional, nil when the SDK build does not export it
	hotPlug func(cb, ctx uintptr)
}

// symbols lists the required entry points and the field each binds to.
func (l *library) symbols() []symbol {
	return []symbol{
		{"Toupcam_Version", &l.version},
		{"Toupcam_Enum", &l.enum},
		{"Toupcam_Open", &l.open},
		{"Toupcam_Close", &l.close},
		{"Toupcam_StartPullModeWithCallback", &l.startPullModeWithCallback},
		{"Toupcam_PullImage", &l.pullImage},
		{"Toupcam_PullStillImage", &l.pullStillImage},
		{"Toupcam_Stop", &l.stop},
		{"Toupcam_Pause", &l.pause},
		{"Toupcam_Snap", &l.snap},
		{"Toupcam_Trigger", &l.trigger},
		{"Toupcam_put_Size", &l.putSize},
		{"Toupcam_get_Size", &l.getSize},
		{"Toupcam_put_eSize", &l.putESize},
		{"Toupcam_get_eSize", &l.getESize},
		{"Toupcam_get_ResolutionNumber", &l.getResolutionNumber},
		{"Toupcam_get_Resolution", &l.getResolution},
		{"Toupcam_get_ResolutionRatio", &l.getResolutionRatio},
		{"Toupcam_get_RawFormat", &l.getRawFormat},
		{"Toupcam_put_RealTime", &l.putRealTime},
		{"Toupcam_get_RealTime", &l.getRealTime},
		{"Toupcam_Flush", &l.flush},
		{"Toupcam_get_Temperature", &l.getTemperature},
		{"Toupcam_put_Temperature", &l.putTemperature},
		{"Toupcam_get_Roi", &l.getRoi},
		{"Toupcam_put_Roi", &l.putRoi},
		{"Toupcam_get_AutoExpoEnable", &l.getAutoExpoEnable},
		{"Toupcam_put_AutoExpoEnable", &l.putAutoExpoEnable},
		{"Toupcam_get_AutoExpoTarget", &l.getAutoExpoTarget},
		{"Toupcam_put_AutoExpoTarget", &l.putAutoExpoTarget},
		{"Toupcam_put_MaxAutoExpoTimeAGain", &l.putMaxAutoExpoTimeAGain},
		{"Toupcam_get_ExpoTime", &l.getExpoTime},
		{"Toupcam_put_ExpoTime", &l.putExpoTime},
		{"Toupcam_get_ExpTimeRange", &l.getExpTimeRange},
		{"Toupcam_get_ExpoAGain", &l.getExpoAGain},
		{"Toupcam_put_ExpoAGain", &l.putExpoAGain},
		{"Toupcam_get_ExpoAGainRange", &l.getExpoAGainRange},
		{"Toupcam_put_LevelRange", &l.putLevelRange},
		{"Toupcam_get_LevelRange", &l.getLevelRange},
		{"Toupcam_put_Hue", &l.putHue},
		{"Toupcam_get_Hue", &l.getHue},
		{"Toupcam_put_Saturation", &l.putSaturation},
		{"Toupcam_get_Saturation", &l.getSaturation},
		{"Toupcam_put_Brightness", &l.putBrightness},
		{"Toupcam_get_Brightness", &l.getBrightness},
		{"Toupcam_put_Contrast", &l.putContrast},
		{"Toupcam_get_Contrast", &l.getContrast},
		{"Toupcam_put_Gamma", &l.putGamma},
		{"Toupcam_get_Gamma", &l.getGamma},
		{"Toupcam_put_Chrome", &l.putChrome},
		{"Toupcam_get_Chrome", &l.getChrome},
		{"Toupcam_put_VFlip", &l.putVFlip},
		{"Toupcam_get_VFlip", &l.getVFlip},
		{"Toupcam_put_HFlip", &l.putHFlip},
		{"Toupcam_get_HFlip", &l.getHFlip},
		{"Toupcam_put_Negative", &l.putNegative},
		{"Toupcam_get_Negative", &l.getNegative},
		{"Toupcam_put_Speed", &l.putSpeed},
		{"Toupcam_get_Speed", &l.getSpeed},
		{"Toupcam_get_MaxSpeed", &l.getMaxSpeed},
		{"Toupcam_get_MaxBitDepth", &l.getMaxBitDepth},
		{"Toupcam_put_HZ", &l.putHZ},
		{"Toupcam_get_HZ", &l.getHZ},
		{"Toupcam_put_Mode", &l.putMode},
		{"Toupcam_get_Mode", &l.getMode},
		{"Toupcam_put_TempTint", &l.putTempTint},
		{"Toupcam_get_TempTint", &l.getTempTint},
		{"Toupcam_put_WhiteBalanceGain", &l.putWhiteBalanceGain},
		{"Toupcam_get_WhiteBalanceGain", &l.getWhiteBalanceGain},
		{"Toupcam_put_AWBAuxRect", &l.putAWBAuxRect},
		{"Toupcam_get_AWBAuxRect", &l.getAWBAuxRect},
		{"Toupcam_put_AEAuxRect", &l.putAEAuxRect},
		{"Toupcam_get_AEAuxRect", &l.getAEAuxRect},
		{"Toupcam_get_MonoMode", &l.getMonoMode},
		{"Toupcam_get_StillResolutionNumber", &l.getStillResolutionNumber},
		{"Toupcam_get_StillResolution", &l.getStillResolution},
		{"Toupcam_get_SerialNumber", &l.getSerialNumber},
		{"Toupcam_get_FwVersion", &l.getFwVersion},
		{"Toupcam_get_HwVersion", &l.getHwVersion},
		{"Toupcam_get_ProductionDate", &l.getProductionDate},
		{"Toupcam_AwbOnePush", &l.awbOnePush},
		{"Toupcam_AwbInit", &l.awbInit},
		{"Toupcam_LevelRangeAuto", &l.levelRangeAuto},
		{"Toupcam_put_LEDState", &l.putLEDState},
		{"Toupcam_write_EEPROM", &l.writeEEPROM},
		{"Toupcam_read_EEPROM", &l.readEEPROM},
		{"Toupcam_put_Option", &l.putOption},
		{"Toupcam_get_Option", &l.getOption},
		{"Toupcam_calc_ClarityFactor", &l.calcClarityFactor},
	}
}

// optionalSymbols are bound when present.
func (l *library) optionalSymbols() []symbol {
	return []symbol{
		{"Toupcam_HotPlug", &l.hotPlug},
	}
}

type symbol struct {
	name string
	fptr any
}

var (
	libMu   sync.Mutex
	current *library
)

// Load opens the SDK shared library at path. It only takes effect when called
// before any other function of this package; later calls are no-ops.
func Load(path string) error {
	libMu.Lock()
	defer libMu.Unlock()
	if current != nil {
		return nil
	}
	l, err := openLibrary(path)
	if err != nil {
		return err
	}
	current = l
	return nil
}

// getLibrary returns the loaded SDK, opening the default library name on first use.
func getLibrary() (*library, error) {
	libMu.Lock()
	defer libMu.Unlock()
	if current != nil {
		return current, nil
	}
	l, err := openLibrary("")
	if err != nil {
		return nil, err
	}
	current = l
	return current, nil
}
