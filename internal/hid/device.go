package hid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"
	"github.com/pleimann/hookpad/internal/utils"
)

// ErrDeviceClosed is returned when reading from a closed device
var ErrDeviceClosed = errors.New("device closed")

// Device represents a connection to a HID media-button device
type Device struct {
	vendorID  uint16
	productID uint16
	device    *hid.Device
	logger    *slog.Logger
	mu        sync.Mutex
	closed    bool
}

// NewDevice opens a connection to a HID device with the specified vendor and product IDs
func NewDevice(vendorID, productID uint16, logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = slog.Default()
	}

	devices := enumerate(vendorID, productID)
	if len(devices) == 0 {
		// List available devices to help user find the right one
		allDevices := hid.Enumerate(0, 0)
		if len(allDevices) == 0 {
			return nil, fmt.Errorf("no HID devices found on system - check USB connection")
		}
		return nil, fmt.Errorf("no device found with VendorID=0x%04X, ProductID=0x%04X\n"+
			"  Run '"+utils.ExecutableName()+" list-devices' to see available devices\n"+
			"  Run '"+utils.ExecutableName()+" set-device' to configure the correct device",
			vendorID, productID)
	}

	// Some headsets expose several interfaces and only one can be opened;
	// the consumer or telephony interface carries the button reports
	var lastErr error
	for _, devInfo := range devices {
		dev, err := devInfo.Open()
		if err == nil {
			logger.Debug("opened HID interface", "path", devInfo.Path, "interface", devInfo.Interface,
				"usage_page", fmt.Sprintf("0x%02X", devInfo.UsagePage))
			return &Device{
				vendorID:  vendorID,
				productID: productID,
				device:    dev,
				logger:    logger,
			}, nil
		}
		logger.Debug("HID interface open failed", "path", devInfo.Path, "error", err)
		lastErr = err
	}

	hint := "  This may be a permissions issue. On Linux, add a udev rule granting access to /dev/hidraw*"
	if len(devices) == 1 {
		return nil, fmt.Errorf("failed to open device 0x%04X:0x%04X: %w\n%s",
			vendorID, productID, lastErr, hint)
	}
	return nil, fmt.Errorf("failed to open any of %d interfaces for device 0x%04X:0x%04X: %w\n%s",
		len(devices), vendorID, productID, lastErr, hint)
}

// Close closes the HID device connection
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.device != nil {
		return d.device.Close()
	}
	return nil
}

// ReadEvents continuously reads events from the device and sends them to the channel
func (d *Device) ReadEvents(ctx context.Context, events chan<- Event) error {
	buf := make([]byte, 64)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.mu.Lock()
		if d.closed || d.device == nil {
			d.mu.Unlock()
			return ErrDeviceClosed
		}
		dev := d.device
		d.mu.Unlock()

		n, err := dev.Read(buf)
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		if n == 0 {
			continue
		}

		event, err := ParseEvent(buf[:n])
		if err != nil {
			d.logger.Debug("skipping HID report", "error", err)
			continue
		}

		select {
		case events <- *event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Reconnect attempts to reconnect to the device
func (d *Device) Reconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		d.device.Close()
		d.device = nil
	}
	d.closed = false

	devices := enumerate(d.vendorID, d.productID)
	if len(devices) == 0 {
		return fmt.Errorf("device not found")
	}

	var lastErr error
	for _, devInfo := range devices {
		dev, err := devInfo.Open()
		if err == nil {
			d.device = dev
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("failed to open device: %w", lastErr)
}

// WaitForDevice waits for a device to become available and connects to it
func (d *Device) WaitForDevice(ctx context.Context, pollInterval time.Duration) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Reconnect(); err == nil {
				return nil
			}
		}
	}
}
