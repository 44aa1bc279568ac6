package toupcam

// Layout-sensitive declarations for one libtoupcam release. Numeric values and
// struct field order must match toupcam.h exactly; they cross the boundary as
// raw integers and memory.

// MaxInstances is the capacity of the array filled by Toupcam_Enum and of the
// per-model resolution table.
const MaxInstances = 16

// Result codes.
const (
	SOK         HRESULT = 0x00000000 // Operation successful
	SFalse      HRESULT = 0x00000001 // Operation successful, secondary state
	EFail       HRESULT = 0x80004005 // Unspecified failure
	EInvalidArg HRESULT = 0x80070057 // One or more arguments are not valid
	ENotImpl    HRESULT = 0x80004001 // Not supported or not implemented
	EPointer    HRESULT = 0x80004003 // Pointer that is not valid
	EUnexpected HRESULT = 0x8000FFFF // Unexpected failure
)

// Flags describes model capabilities as reported in the model descriptor.
type Flags uint32

// Capability flags.
const (
	FlagCMOS             Flags = 0x00000001 // cmos sensor
	FlagCCDProgressive   Flags = 0x00000002 // progressive ccd sensor
	FlagCCDInterlaced    Flags = 0x00000004 // interlaced ccd sensor
	FlagROIHardware      Flags = 0x00000008 // support hardware ROI
	FlagMono             Flags = 0x00000010 // monochromatic
	FlagBinSkipSupported Flags = 0x00000020 // support bin/skip mode
	FlagUSB30            Flags = 0x00000040 // USB 3.0
	FlagCooled           Flags = 0x00000080 // cooled
	FlagUSB30OverUSB20   Flags = 0x00000100 // usb3.0 camera connected to usb2.0 port
	FlagST4              Flags = 0x00000200 // ST4
	FlagGetTemperature   Flags = 0x00000400 // can read sensor temperature
	FlagPutTemperature   Flags = 0x00000800 // can set sensor temperature
	FlagBitDepth10       Flags = 0x00001000 // maximum bit depth = 10
	FlagBitDepth12       Flags = 0x00002000 // maximum bit depth = 12
	FlagBitDepth14       Flags = 0x00004000 // maximum bit depth = 14
	FlagBitDepth16       Flags = 0x00008000 // maximum bit depth = 16
	FlagFan              Flags = 0x00010000 // cooling fan
	FlagCoolerOnOff      Flags = 0x00020000 // cooler can be turned on or off
	FlagISP              Flags = 0x00040000 // image signal processing supported
	FlagTrigger          Flags = 0x00080000 // support the trigger mode
)

// Event is a notification posted by the driver thread.
type Event uint32

// Events.
const (
	EventExposure     Event = 0x0001 // exposure time changed
	EventTempTint     Event = 0x0002 // white balance changed, Temp/Tint mode
	EventChrome       Event = 0x0003 // reserved
	EventImage        Event = 0x0004 // live image arrived, use PullImage
	EventStillImage   Event = 0x0005 // snap frame arrived, use PullStillImage
	EventWBGain       Event = 0x0006 // white balance changed, RGB gain mode
	EventError        Event = 0x0080 // something went wrong
	EventDisconnected Event = 0x0081 // camera disconnected
)

// Option selects a value for GetOption and SetOption.
type Option uint32

// Options.
const (
	OptionNoFrameTimeout Option = 0x01 // 1 = enable, 0 = disable. default: enable
	OptionThreadPriority Option = 0x02 // priority of the internal grab thread: 0 normal, 1 above normal, 2 highest
	OptionProcessMode    Option = 0x03 // 0 = better quality, more cpu; 1 = lower quality, less cpu
	OptionRaw            Option = 0x04 // raw sensor data. only before Start
	OptionHistogram      Option = 0x05 // 0 = only one, 1 = continue mode
	OptionBitDepth       Option = 0x06 // 0 = 8 bits mode, 1 = 16 bits mode
	OptionFan            Option = 0x07 // 0 = fan off, 1 = fan on
	OptionCooler         Option = 0x08 // 0 = cooler off, 1 = cooler on
	OptionLinear         Option = 0x09 // tone linear on/off
	OptionCurve          Option = 0x0a // tone curve on/off
	OptionTrigger        Option = 0x0b // 0 = continuous mode, 1 = trigger mode
	OptionRGB48          Option = 0x0c // RGB48 output when bit depth > 8
)

// Power supply frequencies for flicker compensation.
const (
	HZ60AC = 0
	HZ50AC = 1
	HZDC   = 2
)

// LED states for SetLEDState.
const (
	LEDOff   uint16 = 0
	LEDOn    uint16 = 1
	LEDFlash uint16 = 2
)

// Info string buffer sizes.
const (
	serialNumberLen   = 32
	fwVersionLen      = 16
	hwVersionLen      = 16
	productionDateLen = 10
)

// Resolution is a width x height pair. Layout matches ToupcamResolution.
type Resolution struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Rect is a pixel rectangle. Layout matches RECT.
type Rect struct {
	Left   uint32 `json:"left"`
	Top    uint32 `json:"top"`
	Right  uint32 `json:"right"`
	Bottom uint32 `json:"bottom"`
}

// model mirrors ToupcamModel. name points into static library memory.
type model struct {
	name     *byte                    // const char*
	flags    uint32                   // offset ptr
	maxspeed uint32                   // offset ptr+4
	preview  uint32                   // offset ptr+8
	still    uint32                   // offset ptr+12
	res      [MaxInstances]Resolution // offset ptr+16
}

// instance mirrors ToupcamInst.
type instance struct {
	displayname [64]byte // offset 0
	id          [64]byte // offset 64
	model       *model   // offset 128, const ToupcamModel*
}
