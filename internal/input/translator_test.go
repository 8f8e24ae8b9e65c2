package input

import (
	"testing"

	"github.com/pleimann/hookpad/internal/config"
	"github.com/pleimann/hookpad/internal/evdev"
	"github.com/pleimann/hookpad/internal/gesture"
	"github.com/pleimann/hookpad/internal/hid"
)

func newTestTranslator(source string) *Translator {
	return NewTranslator(NewMapper(&config.Config{Device: config.DeviceConfig{Source: source}}))
}

func TestTranslatorHIDHold(t *testing.T) {
	tr := newTestTranslator(config.SourceHID)

	reports := []hid.Event{
		{Type: hid.Press, Key: UsageScanNext},
		{Type: hid.Repeat, Key: UsageScanNext},
		{Type: hid.Repeat, Key: UsageScanNext},
		{Type: hid.Release, Key: UsageScanNext},
		{Type: hid.Press, Key: UsageScanNext},
	}
	want := []gesture.RawEvent{
		{Code: gesture.ButtonNext, Phase: gesture.Pressed, Continuation: 0},
		{Code: gesture.ButtonNext, Phase: gesture.Pressed, Continuation: 1},
		{Code: gesture.ButtonNext, Phase: gesture.Pressed, Continuation: 2},
		{Code: gesture.ButtonNext, Phase: gesture.Released},
		{Code: gesture.ButtonNext, Phase: gesture.Pressed, Continuation: 0},
	}

	for i, r := range reports {
		if got := tr.FromHID(r); got != want[i] {
			t.Errorf("report %d: FromHID() = %v, want %v", i, got, want[i])
		}
	}
}

func TestTranslatorRepeatWithoutPress(t *testing.T) {
	tr := newTestTranslator(config.SourceHID)

	got := tr.FromHID(hid.Event{Type: hid.Repeat, Key: UsagePlayPause})
	if got.Continuation != 1 || got.Phase != gesture.Pressed {
		t.Errorf("orphan repeat = %v, want continuation 1", got)
	}
}

func TestTranslatorKeysIndependent(t *testing.T) {
	tr := newTestTranslator(config.SourceHID)

	tr.FromHID(hid.Event{Type: hid.Press, Key: UsagePlay})
	tr.FromHID(hid.Event{Type: hid.Repeat, Key: UsagePlay})

	got := tr.FromHID(hid.Event{Type: hid.Press, Key: UsageStop})
	if got.Code != gesture.ButtonStop || got.Continuation != 0 {
		t.Errorf("second key = %v, want stop#0", got)
	}
}

func TestTranslatorReset(t *testing.T) {
	tr := newTestTranslator(config.SourceHID)

	tr.FromHID(hid.Event{Type: hid.Press, Key: UsagePlay})
	tr.Reset()

	if got := tr.FromHID(hid.Event{Type: hid.Press, Key: UsagePlay}); got.Continuation != 0 {
		t.Errorf("press after Reset() continuation = %d, want 0", got.Continuation)
	}
}

func TestTranslatorEvdev(t *testing.T) {
	tr := newTestTranslator(config.SourceEvdev)

	events := []evdev.Event{
		{Code: evdev.KeyMedia, Value: evdev.ValuePress},
		{Code: evdev.KeyMedia, Value: evdev.ValueRepeat},
		{Code: evdev.KeyMedia, Value: evdev.ValueRelease},
		{Code: 999, Value: evdev.ValuePress},
	}
	want := []gesture.RawEvent{
		{Code: gesture.ButtonHook, Phase: gesture.Pressed, Continuation: 0},
		{Code: gesture.ButtonHook, Phase: gesture.Pressed, Continuation: 1},
		{Code: gesture.ButtonHook, Phase: gesture.Released},
		{Code: gesture.ButtonUnknown, Phase: gesture.Pressed, Continuation: 0},
	}

	for i, ev := range events {
		if got := tr.FromEvdev(ev); got != want[i] {
			t.Errorf("event %d: FromEvdev() = %v, want %v", i, got, want[i])
		}
	}
}
