//go:build !linux

package devices

func openUSBWatcher() (USBWatcher, error) {
	return nil, ErrNoUEvents
}
