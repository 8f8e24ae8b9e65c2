package gesture

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultHoldQuiescence must exceed the ~50ms re-delivery interval of a held button
	DefaultHoldQuiescence = 100 * time.Millisecond
	// DefaultReleaseQuiescence must exceed the platform's long-press collection window
	DefaultReleaseQuiescence = 1100 * time.Millisecond
	// ResponsiveReleaseQuiescence is a shorter window that suits some hardware.
	// It is never selected implicitly.
	ResponsiveReleaseQuiescence = 650 * time.Millisecond
)

// Timing holds the two quiescence windows
type Timing struct {
	HoldQuiescence    time.Duration
	ReleaseQuiescence time.Duration
}

// DefaultTiming returns the default quiescence windows
func DefaultTiming() Timing {
	return Timing{
		HoldQuiescence:    DefaultHoldQuiescence,
		ReleaseQuiescence: DefaultReleaseQuiescence,
	}
}

func (t Timing) withDefaults() Timing {
	if t.HoldQuiescence <= 0 {
		t.HoldQuiescence = DefaultHoldQuiescence
	}
	if t.ReleaseQuiescence <= 0 {
		t.ReleaseQuiescence = DefaultReleaseQuiescence
	}
	return t
}

// Timer names the quiescence timer that is armed
type Timer int

const (
	TimerNone Timer = iota
	TimerHold
	TimerRelease
)

func (t Timer) String() string {
	switch t {
	case TimerNone:
		return "none"
	case TimerHold:
		return "hold"
	case TimerRelease:
		return "release"
	default:
		return fmt.Sprintf("timer(%d)", int(t))
	}
}

// State is a read-only snapshot of the gesture being accumulated
type State struct {
	Weight     int
	WasPlaying bool
	Armed      Timer
}

// Idle reports whether no gesture is open
func (s State) Idle() bool {
	return s.Weight == 0 && s.Armed == TimerNone
}

// gestureState is owned by the engine and only touched under its mutex
type gestureState struct {
	weight          int
	wasPlaying      bool
	feedbackApplied bool
	armed           Timer
	handle          Handle
	generation      uint64
}

// Engine turns a stream of raw button events into playback commands.
// Every transition and every timer expiry runs under one mutex.
type Engine struct {
	mu         sync.Mutex
	timing     Timing
	scheduler  Scheduler
	dispatcher *Dispatcher
	onResolve  func(Resolution)
	logger     *slog.Logger
	now        func() time.Time
	state      gestureState
	stopped    bool
}

// Option configures an Engine
type Option func(*Engine)

// WithScheduler replaces the runtime timer scheduler
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithLogger sets the engine's logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the time source used to stamp resolutions
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an idle engine. onResolve, if non-nil, is called for
// every closed gesture while the engine lock is held; it must not call back
// into the engine.
func NewEngine(timing Timing, transport Transport, onResolve func(Resolution), opts ...Option) *Engine {
	e := &Engine{
		timing:     timing.withDefaults(),
		scheduler:  TimerScheduler{},
		dispatcher: NewDispatcher(transport),
		onResolve:  onResolve,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle processes a raw event and reports whether it was consumed
func (e *Engine) Handle(raw RawEvent) bool {
	return e.Process(raw).Consumed()
}

// Process runs one event through the state machine and returns the branch taken
func (e *Engine) Process(raw RawEvent) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped {
		return OutcomeUnhandled
	}

	ev, class := Classify(raw, e.open())
	switch class {
	case ClassReject:
		return OutcomeUnhandled
	case ClassAbsorb:
		return OutcomeAbsorbed
	case ClassRelease:
		return OutcomeReleased
	}

	var outcome Outcome
	switch {
	case ev.Code == ButtonStop:
		outcome = e.stopGesture()
	case ev.IsContinuation():
		outcome = e.continueHold(ev)
	default:
		outcome = e.addTap(ev)
	}

	e.logger.Debug("button event",
		"event", raw.String(),
		"outcome", outcome.String(),
		"weight", e.state.weight,
		"armed", e.state.armed.String())
	return outcome
}

// SetTiming replaces the quiescence windows. A timer that is already armed
// keeps its original delay.
func (e *Engine) SetTiming(t Timing) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timing = t.withDefaults()
}

// Timing returns the active quiescence windows
func (e *Engine) Timing() Timing {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timing
}

// State returns a snapshot of the current gesture
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Weight:     e.state.weight,
		WasPlaying: e.state.wasPlaying,
		Armed:      e.state.armed,
	}
}

// Stop cancels any pending resolution and rejects further events
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelTimer()
	e.reset()
	e.stopped = true
}

func (e *Engine) open() bool {
	return e.state.weight > 0 || e.state.armed != TimerNone
}

// stopGesture bypasses debouncing entirely
func (e *Engine) stopGesture() Outcome {
	e.cancelTimer()
	weight := e.state.weight
	wasPlaying := e.state.wasPlaying

	e.dispatcher.Execute(CommandStop)
	e.reset()
	e.resolved(ResolvedStop, weight, CommandStop, wasPlaying)
	return OutcomeStop
}

// addTap optimistically treats a fresh press as a discrete tap
func (e *Engine) addTap(ev ButtonEvent) Outcome {
	opening := !e.open()
	e.cancelTimer()

	e.state.weight += ev.Code.Weight()
	if opening {
		e.state.wasPlaying = e.dispatcher.IsPlaying()
		e.state.feedbackApplied = false
	}

	e.arm(TimerRelease, e.timing.ReleaseQuiescence)
	return OutcomeTap
}

// continueHold handles a re-delivered press of a button that is still down
func (e *Engine) continueHold(ev ButtonEvent) Outcome {
	e.cancelTimer()

	if feedbackAllowed(ev.Continuation) {
		// the restore target must predate any feedback of this gesture
		if !e.state.feedbackApplied {
			e.state.wasPlaying = e.dispatcher.IsPlaying()
		}
		if cmd := HoldFeedback(e.state.weight); cmd != CommandNone {
			e.dispatcher.Execute(cmd)
			e.state.feedbackApplied = true
			e.logger.Debug("hold feedback", "command", cmd.String(), "continuation", ev.Continuation)
		}
	}

	e.arm(TimerHold, e.timing.HoldQuiescence)
	return OutcomeHold
}

func (e *Engine) arm(t Timer, delay time.Duration) {
	e.state.generation++
	gen := e.state.generation
	e.state.armed = t
	e.state.handle = e.scheduler.Arm(delay, func() {
		e.fire(t, gen)
	})
}

func (e *Engine) cancelTimer() {
	if e.state.handle != nil {
		e.scheduler.Cancel(e.state.handle)
		e.state.handle = nil
	}
	e.state.armed = TimerNone
	// a fire that already lost the race to Cancel sees a newer generation
	e.state.generation++
}

func (e *Engine) fire(t Timer, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped || e.state.armed != t || e.state.generation != gen {
		return
	}
	e.state.handle = nil
	e.state.armed = TimerNone

	weight := e.state.weight
	wasPlaying := e.state.wasPlaying

	switch t {
	case TimerRelease:
		cmd := ResolveTap(weight, e.dispatcher.IsSeeking(), wasPlaying)
		e.dispatcher.Execute(cmd)
		e.reset()
		e.resolved(ResolvedTap, weight, cmd, wasPlaying)
	case TimerHold:
		cmd := ResolveHold(wasPlaying)
		e.dispatcher.Execute(cmd)
		e.reset()
		e.resolved(ResolvedHold, weight, cmd, wasPlaying)
	}
}

func (e *Engine) reset() {
	e.state.weight = 0
	e.state.wasPlaying = false
	e.state.feedbackApplied = false
}

func (e *Engine) resolved(kind ResolutionKind, weight int, cmd Command, wasPlaying bool) {
	r := Resolution{
		Kind:       kind,
		Weight:     weight,
		Command:    cmd,
		WasPlaying: wasPlaying,
		At:         e.now(),
	}
	e.logger.Info("gesture resolved",
		"kind", kind.String(),
		"weight", weight,
		"command", cmd.String())
	if e.onResolve != nil {
		e.onResolve(r)
	}
}
