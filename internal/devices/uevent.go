package devices

import (
	"bytes"
	"context"
	"errors"
)

// USBWatcher reports kernel USB device events.
type USBWatcher interface {
	// Run calls notify for every USB device added or removed until ctx is
	// done.
	Run(ctx context.Context, notify func()) error
	Close() error
}

// ErrNoUEvents is returned where kernel uevents are not available.
var ErrNoUEvents = errors.New("devices: kernel uevents unsupported on this platform")

// uevent is the part of a kernel uevent message the monitor looks at.
type uevent struct {
	action    string
	subsystem string
	devType   string
	product   string // idVendor/idProduct/bcdDevice, hex without padding
}

// parseUEvent parses "ACTION@DEVPATH\0KEY=VALUE\0...". Messages relayed by
// udev carry a binary "libudev" header that is skipped.
func parseUEvent(data []byte) (uevent, bool) {
	if bytes.HasPrefix(data, []byte("libudev")) {
		for i := 0; i < len(data)-1; i++ {
			if data[i] != 0 {
				continue
			}
			rest := data[i+1:]
			first := rest
			if end := bytes.IndexByte(rest, 0); end >= 0 {
				first = rest[:end]
			}
			if at := bytes.IndexByte(first, '@'); at > 0 && at < 20 {
				data = rest
				break
			}
		}
	}

	parts := bytes.Split(data, []byte{0})
	header := parts[0]
	at := bytes.IndexByte(header, '@')
	if at < 1 {
		return uevent{}, false
	}

	ev := uevent{action: string(header[:at])}
	for _, kv := range parts[1:] {
		key, value, ok := bytes.Cut(kv, []byte{'='})
		if !ok {
			continue
		}
		switch string(key) {
		case "SUBSYSTEM":
			ev.subsystem = string(value)
		case "DEVTYPE":
			ev.devType = string(value)
		case "PRODUCT":
			ev.product = string(value)
		}
	}
	return ev, true
}

// usbDevicePlug reports whether ev is a whole USB device arriving or
// leaving, as opposed to one of its interfaces.
func (ev uevent) usbDevicePlug() bool {
	return ev.subsystem == "usb" && ev.devType == "usb_device" &&
		(ev.action == "add" || ev.action == "remove")
}
