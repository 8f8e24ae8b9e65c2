package gesture

import (
	"fmt"
	"time"
)

// SeekOffset is the jump applied by the double and triple tap gestures
const SeekOffset = 5 * time.Minute

// Transport is the playback capability the engine drives. Commands are
// fire-and-forget; the queries must answer synchronously.
type Transport interface {
	PlaybackToggle()
	Play()
	Pause()
	Stop()
	StepBack()
	FastForward()
	Rewind()
	SeekForward(d time.Duration)
	SeekBack(d time.Duration)
	IsPlaying() bool
	IsSeeking() bool
}

// Command is a concrete transport command chosen by the dispatcher
type Command int

const (
	CommandNone Command = iota
	CommandToggle
	CommandPlay
	CommandPause
	CommandStop
	CommandSeekForward
	CommandSeekBack
	CommandStepBack
	CommandFastForward
	CommandRewind
)

func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandToggle:
		return "toggle"
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandStop:
		return "stop"
	case CommandSeekForward:
		return "seek_forward"
	case CommandSeekBack:
		return "seek_back"
	case CommandStepBack:
		return "step_back"
	case CommandFastForward:
		return "fast_forward"
	case CommandRewind:
		return "rewind"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// ResolveTap maps the final weight of a tap gesture to a command. While a
// seek is in progress a single tap restores the pre-gesture playing state
// instead of toggling.
func ResolveTap(weight int, seeking, wasPlaying bool) Command {
	switch weight {
	case 1:
		if seeking {
			return restoreCommand(wasPlaying)
		}
		return CommandToggle
	case 2:
		return CommandSeekForward
	case 3:
		return CommandSeekBack
	case 4:
		return CommandStepBack
	case 5:
		return CommandRewind
	default:
		return CommandNone
	}
}

// HoldFeedback is the immediate action for a held button, indexed by the raw
// accumulated weight. Weights past 2 get no feedback.
func HoldFeedback(weight int) Command {
	switch weight {
	case 0:
		return CommandStepBack
	case 1:
		return CommandFastForward
	case 2:
		return CommandRewind
	default:
		return CommandNone
	}
}

// ResolveHold is the command that undoes hold feedback once the button is up
func ResolveHold(wasPlaying bool) Command {
	return restoreCommand(wasPlaying)
}

func restoreCommand(wasPlaying bool) Command {
	if wasPlaying {
		return CommandPlay
	}
	return CommandPause
}

// Dispatcher issues commands through a Transport
type Dispatcher struct {
	transport Transport
}

// NewDispatcher creates a dispatcher bound to transport
func NewDispatcher(transport Transport) *Dispatcher {
	return &Dispatcher{transport: transport}
}

// Execute invokes cmd exactly once. CommandNone is a no-op.
func (d *Dispatcher) Execute(cmd Command) {
	t := d.transport
	switch cmd {
	case CommandToggle:
		t.PlaybackToggle()
	case CommandPlay:
		t.Play()
	case CommandPause:
		t.Pause()
	case CommandStop:
		t.Stop()
	case CommandSeekForward:
		t.SeekForward(SeekOffset)
	case CommandSeekBack:
		t.SeekBack(SeekOffset)
	case CommandStepBack:
		t.StepBack()
	case CommandFastForward:
		t.FastForward()
	case CommandRewind:
		t.Rewind()
	}
}

// IsPlaying samples the transport's playing state
func (d *Dispatcher) IsPlaying() bool {
	return d.transport.IsPlaying()
}

// IsSeeking samples whether the transport is scrubbing
func (d *Dispatcher) IsSeeking() bool {
	return d.transport.IsSeeking()
}
