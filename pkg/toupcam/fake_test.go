package toupcam

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

func hr(code HRESULT) int32 {
	return int32(code)
}

// fakeSDK emulates one driver build with a set of connected cameras. Handles
// are small integers and the driver thread is a goroutine that posts the
// scripted events after StartPullModeWithCallback.
type fakeSDK struct {
	mu sync.Mutex

	names     [][]byte // keeps model names alive for the model pointers
	models    []model
	instances []instance
	ids       []string
	reported  uint32 // count returned by enum, defaults to len(instances)

	handles    map[uintptr]string
	nextHandle uintptr
	closes     int
	nilOpen    bool

	expo      uint32
	expoRange Range[uint32]
	gain      uint16
	gainRange Range[uint16]
	ints      map[string]int32
	options   map[uint32]int32
	frame     Resolution
	still     []Resolution
	snaps     []uint32
	eeprom    []byte
	led       [3]uint16
	level     LevelRange
	serial    string

	script     []Event
	quit       chan struct{}
	driver     sync.WaitGroup
	posted     atomic.Int32
	starts     int
	stops      int
	startCode  HRESULT
	stopCode   HRESULT
	hotplugCb  uintptr
	hotplugSet int
	pulls      int
}

type fakeCam struct {
	id, name string
	model    model
}

func newFakeSDK(cams ...fakeCam) *fakeSDK {
	f := &fakeSDK{
		handles:   make(map[uintptr]string),
		expo:      10000,
		expoRange: Range[uint32]{Min: 100, Max: 2000000, Default: 10000},
		gain:      100,
		gainRange: Range[uint16]{Min: 100, Max: 500, Default: 100},
		ints:      make(map[string]int32),
		options:   make(map[uint32]int32),
		frame:     Resolution{Width: 3, Height: 2},
		still:     []Resolution{{Width: 640, Height: 480}, {Width: 1280, Height: 960}},
		eeprom:    make([]byte, 64),
		serial:    "TP1234567890",
	}
	f.models = make([]model, len(cams))
	f.names = make([][]byte, len(cams))
	f.instances = make([]instance, len(cams))
	for i, c := range cams {
		f.names[i] = append([]byte(c.name), 0)
		f.models[i] = c.model
		f.models[i].name = &f.names[i][0]
		copy(f.instances[i].displayname[:], c.name)
		copy(f.instances[i].id[:], c.id)
		f.instances[i].model = &f.models[i]
		f.ids = append(f.ids, c.id)
	}
	f.reported = uint32(len(cams))
	return f
}

func goString(p *byte) string {
	s, _ := cstringAt(p)
	return s
}

func (f *fakeSDK) intPair(name string) (intGetter, intSetter) {
	get := func(_ uintptr, v *int32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		*v = f.ints[name]
		return hr(SOK)
	}
	put := func(_ uintptr, v int32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.ints[name] = v
		return hr(SOK)
	}
	return get, put
}

func (f *fakeSDK) pull(_ uintptr, data unsafe.Pointer, bits int32, w, h *uint32) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulls++
	*w, *h = f.frame.Width, f.frame.Height
	if data == nil {
		return hr(SOK)
	}
	size, err := BufferSize(int(bits), *w, *h, f.options[uint32(OptionRaw)] != 0, f.options[uint32(OptionRGB48)] != 0)
	if err != nil {
		return hr(EInvalidArg)
	}
	buf := unsafe.Slice((*byte)(data), size)
	for i := range buf {
		buf[i] = byte(i)
	}
	return hr(SOK)
}

func (f *fakeSDK) library() *library {
	l := &library{
		eventCallback:   0xe7,
		hotplugCallback: 0x47,
	}
	l.enum = func(pti unsafe.Pointer) uint32 {
		arr := (*[MaxInstances]instance)(pti)
		copy(arr[:], f.instances)
		return f.reported
	}
	l.open = func(id *byte) uintptr {
		f.mu.Lock()
		defer f.mu.Unlock()
		want := ""
		if id == nil {
			f.nilOpen = true
			if len(f.ids) == 0 {
				return 0
			}
			want = f.ids[0]
		} else {
			want = goString(id)
		}
		for _, known := range f.ids {
			if known == want {
				f.nextHandle++
				f.handles[f.nextHandle] = want
				return f.nextHandle
			}
		}
		return 0
	}
	l.close = func(h uintptr) {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handles, h)
		f.closes++
	}

	l.startPullModeWithCallback = func(_ uintptr, _ uintptr, ctx uintptr) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.starts++
		if f.startCode != SOK {
			return hr(f.startCode)
		}
		quit := make(chan struct{})
		f.quit = quit
		script := f.script
		f.driver.Add(1)
		go func() {
			defer f.driver.Done()
			for _, ev := range script {
				select {
				case <-quit:
					return
				default:
				}
				dispatchEvent(ev, ctx)
				f.posted.Add(1)
			}
		}()
		return hr(SOK)
	}
	// Stop joins the driver thread like the real SDK does.
	l.stop = func(uintptr) int32 {
		f.mu.Lock()
		f.stops++
		quit := f.quit
		f.quit = nil
		code := f.stopCode
		f.mu.Unlock()
		if quit != nil {
			close(quit)
		}
		f.driver.Wait()
		return hr(code)
	}
	l.pullImage = f.pull
	l.pullStillImage = f.pull
	l.pause = func(_ uintptr, p int32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.ints["pause"] = p
		return hr(SOK)
	}
	l.snap = func(_ uintptr, idx uint32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		if idx != SnapPreview && int(idx) >= len(f.still) {
			return hr(EInvalidArg)
		}
		f.snaps = append(f.snaps, idx)
		return hr(SOK)
	}
	l.trigger = func(uintptr) int32 { return hr(ENotImpl) }

	l.getStillResolutionNumber = func(uintptr) int32 {
		return int32(len(f.still))
	}
	l.getStillResolution = func(_ uintptr, idx uint32, w, h *int32) int32 {
		if idx != SnapPreview && int(idx) >= len(f.still) {
			return hr(EInvalidArg)
		}
		*w, *h = int32(f.still[idx].Width), int32(f.still[idx].Height)
		return hr(SOK)
	}

	l.getExpoTime = func(_ uintptr, v *uint32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		*v = f.expo
		return hr(SOK)
	}
	l.putExpoTime = func(_ uintptr, v uint32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.expoRange.Contains(v) {
			return hr(EInvalidArg)
		}
		f.expo = v
		return hr(SOK)
	}
	l.getExpTimeRange = func(_ uintptr, lo, hi, def *uint32) int32 {
		*lo, *hi, *def = f.expoRange.Min, f.expoRange.Max, f.expoRange.Default
		return hr(SOK)
	}
	l.getExpoAGain = func(_ uintptr, v *uint16) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		*v = f.gain
		return hr(SOK)
	}
	l.putExpoAGain = func(_ uintptr, v uint16) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !f.gainRange.Contains(v) {
			return hr(EInvalidArg)
		}
		f.gain = v
		return hr(SOK)
	}
	l.getExpoAGainRange = func(_ uintptr, lo, hi, def *uint16) int32 {
		*lo, *hi, *def = f.gainRange.Min, f.gainRange.Max, f.gainRange.Default
		return hr(SOK)
	}
	l.getLevelRange = func(_ uintptr, low, high *[4]uint16) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		*low, *high = f.level.Low, f.level.High
		return hr(SOK)
	}
	l.putLevelRange = func(_ uintptr, low, high *[4]uint16) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.level = LevelRange{Low: *low, High: *high}
		return hr(SOK)
	}

	l.getHue, l.putHue = f.intPair("hue")
	l.getSaturation, l.putSaturation = f.intPair("saturation")
	l.getBrightness, l.putBrightness = f.intPair("brightness")
	l.getContrast, l.putContrast = f.intPair("contrast")
	l.getGamma, l.putGamma = f.intPair("gamma")
	l.getChrome, l.putChrome = f.intPair("chrome")
	l.getVFlip, l.putVFlip = f.intPair("vflip")
	l.getHFlip, l.putHFlip = f.intPair("hflip")
	l.getNegative, l.putNegative = f.intPair("negative")
	l.getHZ, l.putHZ = f.intPair("hz")
	l.getMode, l.putMode = f.intPair("mode")
	l.getAutoExpoEnable, l.putAutoExpoEnable = f.intPair("autoexpo")
	l.getRealTime, l.putRealTime = f.intPair("realtime")
	l.getMonoMode = func(uintptr) int32 { return hr(SFalse) }
	l.getMaxSpeed = func(uintptr) int32 { return 3 }
	l.getMaxBitDepth = func(uintptr) int32 { return hr(ENotImpl) }

	l.getOption = func(_ uintptr, opt uint32, v *int32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		*v = f.options[opt]
		return hr(SOK)
	}
	l.putOption = func(_ uintptr, opt uint32, v int32) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		if opt == uint32(OptionRaw) && f.quit != nil {
			return hr(EUnexpected)
		}
		f.options[opt] = v
		return hr(SOK)
	}
	l.getSerialNumber = func(_ uintptr, buf *byte) int32 {
		dst := unsafe.Slice(buf, serialNumberLen)
		copy(dst, f.serial)
		return hr(SOK)
	}
	l.getFwVersion = func(_ uintptr, buf *byte) int32 {
		dst := unsafe.Slice(buf, fwVersionLen)
		copy(dst, []byte{'3', '.', 0xff, 0xfe})
		return hr(SOK)
	}
	l.putLEDState = func(_ uintptr, led, state, period uint16) int32 {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.led = [3]uint16{led, state, period}
		return hr(SOK)
	}
	l.readEEPROM = func(_ uintptr, addr uint32, buf unsafe.Pointer, n uint32) int32 {
		if int(addr)+int(n) > len(f.eeprom) {
			return hr(EInvalidArg)
		}
		copy(unsafe.Slice((*byte)(buf), n), f.eeprom[addr:])
		return int32(n)
	}
	l.writeEEPROM = func(_ uintptr, addr uint32, data unsafe.Pointer, n uint32) int32 {
		if int(addr)+int(n) > len(f.eeprom) {
			return hr(EInvalidArg)
		}
		copy(f.eeprom[addr:], unsafe.Slice((*byte)(data), n))
		return int32(n)
	}
	l.hotPlug = func(cb, _ uintptr) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.hotplugCb = cb
		f.hotplugSet++
	}
	return l
}

func (f *fakeSDK) openHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

func testModel(preview, still uint32) model {
	m := model{flags: uint32(FlagCMOS | FlagUSB30), maxspeed: 3, preview: preview, still: still}
	for i := range m.res {
		m.res[i] = Resolution{Width: uint32(100 * (i + 1)), Height: uint32(50 * (i + 1))}
	}
	return m
}
