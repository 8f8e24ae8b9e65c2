// Package evdev reads key events from Linux input devices (/dev/input/event*).
package evdev

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Linux input event types and key values
const (
	EvKey uint16 = 0x01

	ValueRelease int32 = 0
	ValuePress   int32 = 1
	ValueRepeat  int32 = 2
)

// Media key codes from linux/input-event-codes.h
const (
	KeyNextSong     uint16 = 163
	KeyPlayPause    uint16 = 164
	KeyPreviousSong uint16 = 165
	KeyStopCD       uint16 = 166
	KeyPhone        uint16 = 169
	KeyPlayCD       uint16 = 200
	KeyPauseCD      uint16 = 201
	KeyMedia        uint16 = 226
)

// ErrUnsupported is returned on platforms without evdev
var ErrUnsupported = errors.New("evdev input is only available on linux")

// inputEvent mirrors struct input_event on 64-bit Linux:
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

var inputEventSize = binary.Size(inputEvent{})

// Event is a key event read from an input device
type Event struct {
	Device string
	Code   uint16
	Value  int32
}

// Pressed reports a fresh key press
func (e Event) Pressed() bool { return e.Value == ValuePress }

// Repeated reports a kernel autorepeat of a held key
func (e Event) Repeated() bool { return e.Value == ValueRepeat }

// Released reports a key release
func (e Event) Released() bool { return e.Value == ValueRelease }

func decode(buf []byte) (inputEvent, error) {
	if len(buf) < inputEventSize {
		return inputEvent{}, fmt.Errorf("short input event: %d bytes", len(buf))
	}
	var ev inputEvent
	if err := binary.Read(bytes.NewReader(buf[:inputEventSize]), binary.LittleEndian, &ev); err != nil {
		return inputEvent{}, err
	}
	return ev, nil
}

// keyEvent filters raw input events down to key events
func keyEvent(device string, ev inputEvent) (Event, bool) {
	if ev.Type != EvKey {
		return Event{}, false
	}
	return Event{Device: device, Code: ev.Code, Value: ev.Value}, true
}
