package devices

import "testing"

func TestParseUEvent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want uevent
		ok   bool
		plug bool
	}{
		{name: "empty", in: "", ok: false},
		{name: "no separator", in: "invalid", ok: false},
		{name: "missing action", in: "@/devices/foo", ok: false},
		{
			name: "usb device add",
			in:   "add@/devices/pci0000:00/usb1/1-1\x00SUBSYSTEM=usb\x00DEVTYPE=usb_device\x00PRODUCT=547/3016/100\x00",
			want: uevent{action: "add", subsystem: "usb", devType: "usb_device", product: "547/3016/100"},
			ok:   true,
			plug: true,
		},
		{
			name: "usb device remove",
			in:   "remove@/devices/usb1/1-1\x00SUBSYSTEM=usb\x00DEVTYPE=usb_device\x00",
			want: uevent{action: "remove", subsystem: "usb", devType: "usb_device"},
			ok:   true,
			plug: true,
		},
		{
			name: "usb interface ignored",
			in:   "add@/devices/usb1/1-1/1-1:1.0\x00SUBSYSTEM=usb\x00DEVTYPE=usb_interface\x00",
			want: uevent{action: "add", subsystem: "usb", devType: "usb_interface"},
			ok:   true,
		},
		{
			name: "bind ignored",
			in:   "bind@/devices/usb1/1-1\x00SUBSYSTEM=usb\x00DEVTYPE=usb_device\x00",
			want: uevent{action: "bind", subsystem: "usb", devType: "usb_device"},
			ok:   true,
		},
		{
			name: "other subsystem",
			in:   "change@/devices/sound/card0\x00SUBSYSTEM=sound\x00\x00\x00",
			want: uevent{action: "change", subsystem: "sound"},
			ok:   true,
		},
		{
			name: "libudev header",
			in:   "libudev\x00\xfe\xed\xca\xfe\x00add@/devices/usb1/1-2\x00SUBSYSTEM=usb\x00DEVTYPE=usb_device\x00",
			want: uevent{action: "add", subsystem: "usb", devType: "usb_device"},
			ok:   true,
			plug: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseUEvent([]byte(tt.in))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("parseUEvent() = %+v, want %+v", got, tt.want)
			}
			if got.usbDevicePlug() != tt.plug {
				t.Errorf("usbDevicePlug() = %v, want %v", got.usbDevicePlug(), tt.plug)
			}
		})
	}
}
