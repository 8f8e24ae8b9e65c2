package gesture

// Class is the classifier's verdict for a raw event
type Class int

const (
	// ClassReject leaves the event to default system handling
	ClassReject Class = iota
	// ClassAbsorb consumes the event without touching gesture state
	ClassAbsorb
	// ClassRelease consumes a release; releases carry no gesture information
	ClassRelease
	// ClassPress is a recognized press that feeds the state machine
	ClassPress
)

// Classify maps a raw event to a ButtonEvent. gestureOpen tells whether a
// gesture is currently accumulating, which decides the fate of unrecognized
// continuations. Classify has no side effects.
func Classify(raw RawEvent, gestureOpen bool) (ButtonEvent, Class) {
	if raw.Phase == Released {
		return ButtonEvent{}, ClassRelease
	}
	if raw.Phase != Pressed {
		return ButtonEvent{}, ClassReject
	}

	cont := raw.Continuation
	if cont < 0 {
		cont = 0
	}

	if !recognized(raw.Code) {
		if cont > 0 && gestureOpen {
			return ButtonEvent{}, ClassAbsorb
		}
		return ButtonEvent{}, ClassReject
	}

	return ButtonEvent{Code: raw.Code, Continuation: cont}, ClassPress
}

func recognized(code ButtonCode) bool {
	switch code {
	case ButtonHook, ButtonPlay, ButtonPause, ButtonPlayPause,
		ButtonNext, ButtonPrevious, ButtonStop:
		return true
	}
	return false
}
