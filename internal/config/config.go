package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/pleimann/hookpad/internal/gesture"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks configuration validation failures
var ErrInvalidConfig = errors.New("invalid configuration")

// Input source names
const (
	SourceHID   = "hid"
	SourceEvdev = "evdev"
)

type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Timing    TimingConfig    `yaml:"timing"`
	Transport TransportConfig `yaml:"transport"`
	Buttons   []Button        `yaml:"buttons"`
	Journal   JournalConfig   `yaml:"journal"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DeviceConfig struct {
	Source         string   `yaml:"source"`
	VendorID       uint16   `yaml:"vendor_id"`
	ProductID      uint16   `yaml:"product_id"`
	Paths          []string `yaml:"paths,omitempty"`
	PollIntervalMs int      `yaml:"poll_interval_ms"`
}

type TimingConfig struct {
	HoldQuiescenceMs    int `yaml:"hold_quiescence_ms"`
	ReleaseQuiescenceMs int `yaml:"release_quiescence_ms"`
}

// Gesture converts the configured windows into engine timing
func (t TimingConfig) Gesture() gesture.Timing {
	return gesture.Timing{
		HoldQuiescence:    time.Duration(t.HoldQuiescenceMs) * time.Millisecond,
		ReleaseQuiescence: time.Duration(t.ReleaseQuiescenceMs) * time.Millisecond,
	}
}

func (t TimingConfig) validate() error {
	if t.HoldQuiescenceMs >= t.ReleaseQuiescenceMs {
		return fmt.Errorf("timing.hold_quiescence_ms (%d) must be shorter than timing.release_quiescence_ms (%d)",
			t.HoldQuiescenceMs, t.ReleaseQuiescenceMs)
	}
	return nil
}

type TransportConfig struct {
	Player        string `yaml:"player"`
	StepBackMs    int    `yaml:"step_back_ms"`
	FastForwardMs int    `yaml:"fast_forward_ms"`
	RewindMs      int    `yaml:"rewind_ms"`
}

// Button maps a device key code onto a logical button
type Button struct {
	Code   int    `yaml:"code"`
	Button string `yaml:"button"`
	Name   string `yaml:"name,omitempty"`
}

type JournalConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// IsEnabled reports whether gesture history is recorded. Defaults to true.
func (j JournalConfig) IsEnabled() bool {
	return j.Enabled == nil || *j.Enabled
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg.applyDefaults()

	// compared after defaults so a window left unset is checked too
	if err := cfg.Timing.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Device.Source) {
	case "", SourceHID:
		if c.Device.VendorID == 0 {
			return fmt.Errorf("device.vendor_id is required")
		}
		if c.Device.ProductID == 0 {
			return fmt.Errorf("device.product_id is required")
		}
	case SourceEvdev:
		if len(c.Device.Paths) == 0 {
			return fmt.Errorf("device.paths is required for evdev source")
		}
	default:
		return fmt.Errorf("device.source must be %q or %q, got %q", SourceHID, SourceEvdev, c.Device.Source)
	}

	if c.Timing.HoldQuiescenceMs < 0 || c.Timing.ReleaseQuiescenceMs < 0 {
		return fmt.Errorf("timing values must not be negative")
	}

	if c.Transport.StepBackMs < 0 || c.Transport.FastForwardMs < 0 || c.Transport.RewindMs < 0 {
		return fmt.Errorf("transport step sizes must not be negative")
	}

	// Validate button codes are unique and names resolve
	seen := make(map[int]bool)
	for _, btn := range c.Buttons {
		if seen[btn.Code] {
			return fmt.Errorf("duplicate button code: 0x%X", btn.Code)
		}
		seen[btn.Code] = true
		if _, err := gesture.ParseButtonCode(btn.Button); err != nil {
			return fmt.Errorf("button 0x%X: %w", btn.Code, err)
		}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "error", "warn", "warning", "info", "debug":
	default:
		return fmt.Errorf("logging.level must be error, warn, info or debug, got %q", c.Logging.Level)
	}

	return nil
}

func (c *Config) applyDefaults() {
	c.Device.Source = strings.ToLower(c.Device.Source)
	if c.Device.Source == "" {
		c.Device.Source = SourceHID
	}
	if c.Device.PollIntervalMs == 0 {
		c.Device.PollIntervalMs = 500
	}
	if c.Timing.HoldQuiescenceMs == 0 {
		c.Timing.HoldQuiescenceMs = int(gesture.DefaultHoldQuiescence / time.Millisecond)
	}
	if c.Timing.ReleaseQuiescenceMs == 0 {
		c.Timing.ReleaseQuiescenceMs = int(gesture.DefaultReleaseQuiescence / time.Millisecond)
	}
	if c.Transport.StepBackMs == 0 {
		c.Transport.StepBackMs = 20000
	}
	if c.Transport.FastForwardMs == 0 {
		c.Transport.FastForwardMs = 10000
	}
	if c.Transport.RewindMs == 0 {
		c.Transport.RewindMs = 10000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	// Update vendor_id (YAML format: vendor_id: 0x1234 or vendor_id: 1234)
	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	productRegex := regexp.MustCompile(`(?m)^(\s*product_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a new config file with default values and the specified device
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	content := fmt.Sprintf(`# hookpad configuration

device:
  source: hid
  vendor_id: 0x%04X
  product_id: 0x%04X
  poll_interval_ms: 500

# Quiescence windows. release_quiescence_ms must outlast the slowest
# long-press detection of your hardware; 650 suits some headsets.
timing:
  hold_quiescence_ms: 100
  release_quiescence_ms: 1100

transport:
  player: ""   # MPRIS name, e.g. "vlc"; empty picks the first player on the bus
  step_back_ms: 20000
  fast_forward_ms: 10000
  rewind_ms: 10000

# Extra key codes (HID consumer usages or evdev key codes)
buttons: []

journal:
  enabled: true

logging:
  level: info
`, vendorID, productID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
