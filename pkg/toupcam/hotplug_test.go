package toupcam

import (
	"errors"
	"testing"
)

func TestHotPlug(t *testing.T) {
	f := twoCameras()
	l := f.library()
	t.Cleanup(func() { _ = setHotPlug(l, nil) })

	calls := 0
	if err := setHotPlug(l, func() { calls++ }); err != nil {
		t.Fatal(err)
	}
	if f.hotplugCb != l.hotplugCallback {
		t.Errorf("registered callback = %#x, want trampoline %#x", f.hotplugCb, l.hotplugCallback)
	}
	dispatchHotplug(0)
	dispatchHotplug(0)
	if calls != 2 {
		t.Errorf("callback ran %d times, want 2", calls)
	}

	replaced := false
	if err := setHotPlug(l, func() { replaced = true }); err != nil {
		t.Fatal(err)
	}
	dispatchHotplug(0)
	if !replaced || calls != 2 {
		t.Error("slot holds more than one callback")
	}

	if err := setHotPlug(l, nil); err != nil {
		t.Fatal(err)
	}
	if f.hotplugCb != 0 {
		t.Error("nil did not clear the native registration")
	}
	dispatchHotplug(0)
}

func TestHotPlugNotExported(t *testing.T) {
	l := twoCameras().library()
	l.hotPlug = nil
	if err := setHotPlug(l, func() {}); !errors.Is(err, ENotImpl) {
		t.Errorf("setHotPlug() = %v, want E_NOTIMPL", err)
	}
}
