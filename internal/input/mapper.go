package input

import (
	"sync"

	"github.com/pleimann/hookpad/internal/config"
	"github.com/pleimann/hookpad/internal/evdev"
	"github.com/pleimann/hookpad/internal/gesture"
)

// HID consumer and telephony usages for media buttons
const (
	UsageHookSwitch   = 0x20
	UsagePlay         = 0xB0
	UsagePause        = 0xB1
	UsageScanNext     = 0xB5
	UsageScanPrevious = 0xB6
	UsageStop         = 0xB7
	UsagePlayPause    = 0xCD
)

// DefaultHIDKeymap maps HID usages to buttons
func DefaultHIDKeymap() map[int]gesture.ButtonCode {
	return map[int]gesture.ButtonCode{
		UsageHookSwitch:   gesture.ButtonHook,
		UsagePlay:         gesture.ButtonPlay,
		UsagePause:        gesture.ButtonPause,
		UsageScanNext:     gesture.ButtonNext,
		UsageScanPrevious: gesture.ButtonPrevious,
		UsageStop:         gesture.ButtonStop,
		UsagePlayPause:    gesture.ButtonPlayPause,
	}
}

// DefaultEvdevKeymap maps Linux key codes to buttons
func DefaultEvdevKeymap() map[int]gesture.ButtonCode {
	return map[int]gesture.ButtonCode{
		int(evdev.KeyMedia):        gesture.ButtonHook,
		int(evdev.KeyPhone):        gesture.ButtonHook,
		int(evdev.KeyPlayPause):    gesture.ButtonPlayPause,
		int(evdev.KeyPlayCD):       gesture.ButtonPlay,
		int(evdev.KeyPauseCD):      gesture.ButtonPause,
		int(evdev.KeyNextSong):     gesture.ButtonNext,
		int(evdev.KeyPreviousSong): gesture.ButtonPrevious,
		int(evdev.KeyStopCD):       gesture.ButtonStop,
	}
}

// Mapper maps device key codes to logical buttons based on configuration
type Mapper struct {
	mu     sync.RWMutex
	keymap map[int]gesture.ButtonCode
}

// NewMapper builds a mapper from the source's default keymap overlaid with
// the configured buttons
func NewMapper(cfg *config.Config) *Mapper {
	return &Mapper{keymap: buildKeymap(cfg)}
}

func buildKeymap(cfg *config.Config) map[int]gesture.ButtonCode {
	var keymap map[int]gesture.ButtonCode
	if cfg.Device.Source == config.SourceEvdev {
		keymap = DefaultEvdevKeymap()
	} else {
		keymap = DefaultHIDKeymap()
	}

	for _, btn := range cfg.Buttons {
		code, err := gesture.ParseButtonCode(btn.Button)
		if err != nil {
			// config validation rejects these; skip rather than guess
			continue
		}
		keymap[btn.Code] = code
	}
	return keymap
}

// Map returns the button for a key code, or ButtonUnknown if not mapped
func (m *Mapper) Map(key int) gesture.ButtonCode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if code, ok := m.keymap[key]; ok {
		return code
	}
	return gesture.ButtonUnknown
}

// Reload updates the mapper with new configuration
func (m *Mapper) Reload(cfg *config.Config) {
	keymap := buildKeymap(cfg)

	m.mu.Lock()
	m.keymap = keymap
	m.mu.Unlock()
}
