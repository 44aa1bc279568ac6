//go:build linux || darwin || freebsd

package toupcam

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	trampolineOnce  sync.Once
	eventTrampoline uintptr
	hotplugTramp    uintptr
)

func defaultLibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libtoupcam.dylib"
	}
	return "libtoupcam.so"
}

func openLibrary(path string) (*library, error) {
	if path == "" {
		path = defaultLibraryName()
	}
	dl, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	l := &library{dl: dl}
	for _, s := range l.symbols() {
		if err := bind(dl, s); err != nil {
			purego.Dlclose(dl)
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	for _, s := range l.optionalSymbols() {
		if err := bind(dl, s); err != nil {
			logger().Debug("optional symbol not exported", "symbol", s.name)
		}
	}

	trampolineOnce.Do(func() {
		eventTrampoline = purego.NewCallback(func(event, ctx uintptr) {
			dispatchEvent(Event(uint32(event)), ctx)
		})
		hotplugTramp = purego.NewCallback(func(ctx uintptr) {
			dispatchHotplug(ctx)
		})
	})
	l.eventCallback = eventTrampoline
	l.hotplugCallback = hotplugTramp

	version, _ := cstringAt(l.version())
	logger().Debug("loaded SDK", "path", path, "version", version)
	return l, nil
}

func bind(dl uintptr, s symbol) error {
	sym, err := purego.Dlsym(dl, s.name)
	if err != nil {
		return fmt.Errorf("missing symbol %s: %w", s.name, err)
	}
	purego.RegisterFunc(s.fptr, sym)
	return nil
}
