package ui

import "testing"

func TestFormatDeviceName(t *testing.T) {
	tests := []struct {
		name string
		dev  DeviceInfo
		want string
	}{
		{"product only", DeviceInfo{Product: "Headset"}, "Headset"},
		{"with manufacturer", DeviceInfo{Manufacturer: "Jabra", Product: "Evolve 40"}, "Jabra Evolve 40"},
		{"unknown", DeviceInfo{}, "Unknown Device"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDeviceName(tt.dev); got != tt.want {
				t.Errorf("formatDeviceName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDeviceID(t *testing.T) {
	if got := formatDeviceID(0x46D, 0xA44); got != "0x046D:0x0A44" {
		t.Errorf("formatDeviceID() = %q", got)
	}
}
