package toupcam

import "sync"

var (
	hotplugMu sync.Mutex
	hotplugFn func()
)

// HotPlug installs fn as the process-wide device arrival and removal
// callback, replacing any previous one. A nil fn clears the slot. fn runs on
// a driver thread and should call Enumerate to learn what changed.
func HotPlug(fn func()) error {
	l, err := getLibrary()
	if err != nil {
		return err
	}
	return setHotPlug(l, fn)
}

func setHotPlug(l *library, fn func()) error {
	if l.hotPlug == nil {
		return &OpError{Op: "HotPlug", Code: ENotImpl}
	}
	hotplugMu.Lock()
	hotplugFn = fn
	hotplugMu.Unlock()

	if fn == nil {
		l.hotPlug(0, 0)
		return nil
	}
	l.hotPlug(l.hotplugCallback, 0)
	return nil
}

func dispatchHotplug(uintptr) {
	hotplugMu.Lock()
	fn := hotplugFn
	hotplugMu.Unlock()
	if fn != nil {
		fn()
	}
}
