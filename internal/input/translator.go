package input

import (
	"github.com/pleimann/hookpad/internal/evdev"
	"github.com/pleimann/hookpad/internal/gesture"
	"github.com/pleimann/hookpad/internal/hid"
)

// Signal is a device-level key transition
type Signal int

const (
	SignalPress Signal = iota
	SignalRepeat
	SignalRelease
)

// Translator turns device key signals into engine events, numbering
// re-delivered presses of held keys. Not safe for concurrent use; one
// translator belongs to one read loop.
type Translator struct {
	mapper  *Mapper
	tracker *gesture.HoldTracker
}

// NewTranslator creates a translator using mapper for key lookup
func NewTranslator(mapper *Mapper) *Translator {
	return &Translator{
		mapper:  mapper,
		tracker: gesture.NewHoldTracker(),
	}
}

// Translate converts one key signal into a raw engine event
func (t *Translator) Translate(key int, sig Signal) gesture.RawEvent {
	code := t.mapper.Map(key)

	switch sig {
	case SignalRelease:
		t.tracker.Release(key)
		return gesture.RawEvent{Code: code, Phase: gesture.Released}
	case SignalRepeat:
		if !t.tracker.Held(key) {
			// a repeat whose press we never saw still counts as held
			t.tracker.Press(key)
		}
		fallthrough
	default:
		return gesture.RawEvent{
			Code:         code,
			Phase:        gesture.Pressed,
			Continuation: t.tracker.Press(key),
		}
	}
}

// Reset forgets held keys, e.g. after the device reconnects
func (t *Translator) Reset() {
	t.tracker.Reset()
}

// FromHID translates a HID button report
func (t *Translator) FromHID(ev hid.Event) gesture.RawEvent {
	switch ev.Type {
	case hid.Release:
		return t.Translate(int(ev.Key), SignalRelease)
	case hid.Repeat:
		return t.Translate(int(ev.Key), SignalRepeat)
	default:
		return t.Translate(int(ev.Key), SignalPress)
	}
}

// FromEvdev translates a Linux key event
func (t *Translator) FromEvdev(ev evdev.Event) gesture.RawEvent {
	switch {
	case ev.Released():
		return t.Translate(int(ev.Code), SignalRelease)
	case ev.Repeated():
		return t.Translate(int(ev.Code), SignalRepeat)
	default:
		return t.Translate(int(ev.Code), SignalPress)
	}
}
