package gesture

import (
	"fmt"
	"strings"
	"time"
)

// ButtonCode identifies a logical media button
type ButtonCode int

const (
	ButtonUnknown ButtonCode = iota
	ButtonHook
	ButtonPlay
	ButtonPause
	ButtonPlayPause
	ButtonNext
	ButtonPrevious
	ButtonStop
)

var buttonNames = map[ButtonCode]string{
	ButtonUnknown:   "unknown",
	ButtonHook:      "hook",
	ButtonPlay:      "play",
	ButtonPause:     "pause",
	ButtonPlayPause: "play_pause",
	ButtonNext:      "next",
	ButtonPrevious:  "previous",
	ButtonStop:      "stop",
}

func (b ButtonCode) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return fmt.Sprintf("button(%d)", int(b))
}

// ParseButtonCode resolves a config name such as "play_pause" or "hook"
func ParseButtonCode(s string) (ButtonCode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch name {
	case "playpause", "toggle":
		return ButtonPlayPause, nil
	case "headset", "headsethook":
		return ButtonHook, nil
	}
	for code, n := range buttonNames {
		if code != ButtonUnknown && n == name {
			return code, nil
		}
	}
	return ButtonUnknown, fmt.Errorf("unknown button name: %q", s)
}

// Weight is the click weight a fresh press of this button adds to the open
// gesture. Stop and Unknown carry no weight.
func (b ButtonCode) Weight() int {
	switch b {
	case ButtonHook, ButtonPlay, ButtonPause, ButtonPlayPause:
		return 1
	case ButtonNext:
		return 2
	case ButtonPrevious:
		return 3
	default:
		return 0
	}
}

// Phase is the press/release phase of a button signal
type Phase int

const (
	Pressed Phase = iota
	Released
)

func (p Phase) String() string {
	switch p {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// RawEvent is an input event as delivered by an input source.
// Continuation is 0 for a fresh press and counts re-deliveries while the
// button stays down.
type RawEvent struct {
	Code         ButtonCode
	Phase        Phase
	Continuation int
}

func (e RawEvent) String() string {
	return fmt.Sprintf("%s/%s#%d", e.Code, e.Phase, e.Continuation)
}

// ButtonEvent is a classified press of a recognized button
type ButtonEvent struct {
	Code         ButtonCode
	Continuation int
}

// IsContinuation reports whether the press is a re-delivery of a held button
func (e ButtonEvent) IsContinuation() bool {
	return e.Continuation > 0
}

// Outcome tags the branch a single event took through the engine
type Outcome int

const (
	OutcomeUnhandled Outcome = iota
	OutcomeAbsorbed
	OutcomeReleased
	OutcomeStop
	OutcomeTap
	OutcomeHold
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnhandled:
		return "unhandled"
	case OutcomeAbsorbed:
		return "absorbed"
	case OutcomeReleased:
		return "released"
	case OutcomeStop:
		return "stop"
	case OutcomeTap:
		return "tap"
	case OutcomeHold:
		return "hold"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Consumed reports whether the event should be withheld from default handling
func (o Outcome) Consumed() bool {
	return o != OutcomeUnhandled
}

// ResolutionKind is the way an open gesture was closed
type ResolutionKind int

const (
	ResolvedTap ResolutionKind = iota
	ResolvedHold
	ResolvedStop
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolvedTap:
		return "tap"
	case ResolvedHold:
		return "hold"
	case ResolvedStop:
		return "stop"
	default:
		return fmt.Sprintf("resolution(%d)", int(k))
	}
}

// Resolution describes a closed gesture and the command it produced
type Resolution struct {
	Kind       ResolutionKind
	Weight     int
	Command    Command
	WasPlaying bool
	At         time.Time
}

func (r Resolution) String() string {
	return fmt.Sprintf("%s(weight=%d) -> %s", r.Kind, r.Weight, r.Command)
}
