package toupcam

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Instance is a connected camera as reported by Enumerate.
type Instance struct {
	DisplayName string `json:"display_name"`
	ID          string `json:"id"` // unique and opaque, pass to Open
	Model       Model  `json:"model"`
}

// Model is the static capability descriptor of a camera model.
type Model struct {
	Name               string       `json:"name"`
	Flags              Flags        `json:"flags"`
	MaxSpeed           uint32       `json:"max_speed"`
	PreviewResolutions []Resolution `json:"preview_resolutions"`
	StillResolutions   []Resolution `json:"still_resolutions"`
}

// Range is the legal domain of a tunable parameter.
type Range[T ~uint16 | ~uint32] struct {
	Min     T `json:"min"`
	Max     T `json:"max"`
	Default T `json:"default"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range[T]) Contains(v T) bool {
	return v >= r.Min && v <= r.Max
}

// Image is one pulled frame. Data layout depends on Bits and on the RAW and
// RGB48 options that were active when the frame was pulled.
type Image struct {
	Resolution Resolution `json:"resolution"`
	Bits       int        `json:"bits"`
	Raw        bool       `json:"raw"`
	RGB48      bool       `json:"rgb48"`
	Data       []byte     `json:"-"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagCMOS, "cmos"},
	{FlagCCDProgressive, "ccd_progressive"},
	{FlagCCDInterlaced, "ccd_interlaced"},
	{FlagROIHardware, "roi_hardware"},
	{FlagMono, "mono"},
	{FlagBinSkipSupported, "binskip"},
	{FlagUSB30, "usb30"},
	{FlagCooled, "cooled"},
	{FlagUSB30OverUSB20, "usb30_over_usb20"},
	{FlagST4, "st4"},
	{FlagGetTemperature, "get_temperature"},
	{FlagPutTemperature, "put_temperature"},
	{FlagBitDepth10, "bitdepth10"},
	{FlagBitDepth12, "bitdepth12"},
	{FlagBitDepth14, "bitdepth14"},
	{FlagBitDepth16, "bitdepth16"},
	{FlagFan, "fan"},
	{FlagCoolerOnOff, "cooler_onoff"},
	{FlagISP, "isp"},
	{FlagTrigger, "trigger"},
}

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Names returns the names of the known flags that are set, in bit order.
func (f Flags) Names() []string {
	names := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f Flags) String() string {
	names := f.Names()
	var known Flags
	for _, fn := range flagNames {
		known |= fn.flag
	}
	if rest := f &^ known; rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// MarshalJSON encodes the flag set as a list of names.
func (f Flags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

var eventNames = map[Event]string{
	EventExposure:     "exposure",
	EventTempTint:     "temptint",
	EventChrome:       "chrome",
	EventImage:        "image",
	EventStillImage:   "still_image",
	EventWBGain:       "wbgain",
	EventError:        "error",
	EventDisconnected: "disconnected",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(0x%04x)", uint32(e))
}

// MarshalJSON encodes the event by name.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}
