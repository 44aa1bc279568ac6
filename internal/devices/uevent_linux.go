//go:build linux

package devices

import (
	"context"
	"errors"
	"syscall"
)

// netlinkKobjectUEvent is the netlink protocol for kernel object events.
const netlinkKobjectUEvent = 15

type netlinkWatcher struct {
	fd int
}

// openUSBWatcher listens on the kernel uevent broadcast group without cgo.
func openUSBWatcher() (USBWatcher, error) {
	fd, err := syscall.Socket(syscall.AF_NETLINK, syscall.SOCK_DGRAM|syscall.SOCK_CLOEXEC, netlinkKobjectUEvent)
	if err != nil {
		return nil, err
	}
	addr := &syscall.SockaddrNetlink{
		Family: syscall.AF_NETLINK,
		Groups: 1, // kernel broadcast group
	}
	if err := syscall.Bind(fd, addr); err != nil {
		syscall.Close(fd)
		return nil, err
	}
	// Read timeout so Run can notice cancellation.
	tv := syscall.Timeval{Sec: 1}
	if err := syscall.SetsockoptTimeval(fd, syscall.SOL_SOCKET, syscall.SO_RCVTIMEO, &tv); err != nil {
		syscall.Close(fd)
		return nil, err
	}
	return &netlinkWatcher{fd: fd}, nil
}

func (w *netlinkWatcher) Run(ctx context.Context, notify func()) error {
	buf := make([]byte, 8192)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, _, err := syscall.Recvfrom(w.fd, buf, 0)
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
				continue
			}
			return err
		}
		if ev, ok := parseUEvent(buf[:n]); ok && ev.usbDevicePlug() {
			notify()
		}
	}
}

func (w *netlinkWatcher) Close() error {
	return syscall.Close(w.fd)
}
