package hid

import (
	"sort"

	"github.com/karalabe/hid"
)

// HID usage pages that carry media and headset buttons
const (
	UsagePageTelephony uint16 = 0x0B
	UsagePageConsumer  uint16 = 0x0C
)

// DeviceInfo contains information about a discovered HID device
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// IsMediaControl reports whether the interface exposes consumer or telephony controls
func (d DeviceInfo) IsMediaControl() bool {
	return d.UsagePage == UsagePageConsumer || d.UsagePage == UsagePageTelephony
}

func fromHID(d hid.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Path:         d.Path,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		SerialNumber: d.Serial,
		UsagePage:    d.UsagePage,
		Usage:        d.Usage,
	}
}

// ListDevices returns a list of all available HID devices
func ListDevices() ([]DeviceInfo, error) {
	devices := hid.Enumerate(0, 0)

	result := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		result[i] = fromHID(d)
	}

	return result, nil
}

// mediaFirst orders enumerated interfaces so media-control interfaces are
// tried before keyboard or vendor ones, keeping enumeration order otherwise
func mediaFirst(devices []hid.DeviceInfo) []hid.DeviceInfo {
	ordered := make([]hid.DeviceInfo, len(devices))
	copy(ordered, devices)
	sort.SliceStable(ordered, func(i, j int) bool {
		return fromHID(ordered[i]).IsMediaControl() && !fromHID(ordered[j]).IsMediaControl()
	})
	return ordered
}

// enumerate lists the interfaces of a device, media-control interfaces first
func enumerate(vendorID, productID uint16) []hid.DeviceInfo {
	return mediaFirst(hid.Enumerate(vendorID, productID))
}
