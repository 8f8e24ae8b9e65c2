package hid

import (
	"encoding/binary"
	"fmt"
)

// ReportIDButtonEvent identifies button reports
const ReportIDButtonEvent byte = 0x01

// Event types for button events
const (
	EventTypePress   byte = 0x01
	EventTypeRelease byte = 0x02
	EventTypeRepeat  byte = 0x03
)

// reportSize is the length of a button report
const reportSize = 8

// Event represents a button event from the device
type Event struct {
	Type      EventType
	Key       uint16 // HID consumer usage
	Timestamp uint32
}

type EventType byte

const (
	Press   EventType = EventType(EventTypePress)
	Release EventType = EventType(EventTypeRelease)
	Repeat  EventType = EventType(EventTypeRepeat)
)

func (e EventType) String() string {
	switch e {
	case Press:
		return "press"
	case Release:
		return "release"
	case Repeat:
		return "repeat"
	default:
		return fmt.Sprintf("unknown(%d)", e)
	}
}

// ParseEvent parses a raw HID report into an Event
// Expected format:
//
//	Byte 0: Report ID (0x01)
//	Byte 1: Event type (0x01=press, 0x02=release, 0x03=repeat)
//	Byte 2-3: Key code (HID consumer usage, little-endian)
//	Byte 4-7: Timestamp (ms since boot, little-endian u32)
func ParseEvent(data []byte) (*Event, error) {
	if len(data) < reportSize {
		return nil, fmt.Errorf("event data too short: %d bytes", len(data))
	}

	if data[0] != ReportIDButtonEvent {
		return nil, fmt.Errorf("unexpected report ID: 0x%02X", data[0])
	}

	eventType := data[1]
	switch eventType {
	case EventTypePress, EventTypeRelease, EventTypeRepeat:
	default:
		return nil, fmt.Errorf("unknown event type: 0x%02X", eventType)
	}

	return &Event{
		Type:      EventType(eventType),
		Key:       binary.LittleEndian.Uint16(data[2:4]),
		Timestamp: binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

// Encode serializes the event into a button report
func (e *Event) Encode() []byte {
	buf := make([]byte, reportSize)
	buf[0] = ReportIDButtonEvent
	buf[1] = byte(e.Type)
	binary.LittleEndian.PutUint16(buf[2:4], e.Key)
	binary.LittleEndian.PutUint32(buf[4:8], e.Timestamp)
	return buf
}
