package gesture

import (
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler is a manual clock: actions run only when the test advances it
type fakeScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	entries []*fakeEntry
}

type fakeEntry struct {
	at       time.Duration
	action   func()
	canceled bool
	fired    bool
}

func (e *fakeEntry) Stop() bool {
	if e.canceled || e.fired {
		return false
	}
	e.canceled = true
	return true
}

func (s *fakeScheduler) Arm(delay time.Duration, action func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &fakeEntry{at: s.now + delay, action: action}
	s.entries = append(s.entries, e)
	return e
}

func (s *fakeScheduler) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h != nil {
		h.Stop()
	}
}

// Advance moves the clock forward and runs every due action in deadline order
func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*fakeEntry
		for _, e := range s.entries {
			if !e.canceled && !e.fired && e.at <= target {
				due = append(due, e)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		next.action()
	}
}

// RunCanceled invokes canceled actions as if their timers fired anyway
func (s *fakeScheduler) RunCanceled() {
	s.mu.Lock()
	var stale []func()
	for _, e := range s.entries {
		if e.canceled {
			stale = append(stale, e.action)
		}
	}
	s.mu.Unlock()

	for _, action := range stale {
		action()
	}
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if !e.canceled && !e.fired {
			n++
		}
	}
	return n
}

// fakeTransport records every command it receives
type fakeTransport struct {
	mu      sync.Mutex
	calls   []string
	playing bool
	seeking bool
}

func (t *fakeTransport) record(call string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, call)
}

func (t *fakeTransport) PlaybackToggle() {
	t.record("toggle")
	t.mu.Lock()
	t.playing = !t.playing
	t.mu.Unlock()
}

func (t *fakeTransport) Play() {
	t.record("play")
	t.mu.Lock()
	t.playing = true
	t.mu.Unlock()
}

func (t *fakeTransport) Pause() {
	t.record("pause")
	t.mu.Lock()
	t.playing = false
	t.mu.Unlock()
}

func (t *fakeTransport) Stop()     { t.record("stop") }
func (t *fakeTransport) StepBack() { t.record("step_back") }

// FastForward starts playback, as scrubbing players typically do
func (t *fakeTransport) FastForward() {
	t.record("fast_forward")
	t.mu.Lock()
	t.playing = true
	t.mu.Unlock()
}

func (t *fakeTransport) Rewind() { t.record("rewind") }

func (t *fakeTransport) SeekForward(d time.Duration) {
	t.record(fmt.Sprintf("seek_forward:%s", d))
}

func (t *fakeTransport) SeekBack(d time.Duration) {
	t.record(fmt.Sprintf("seek_back:%s", d))
}

func (t *fakeTransport) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

func (t *fakeTransport) IsSeeking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seeking
}

func (t *fakeTransport) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.calls))
	copy(out, t.calls)
	return out
}

type harness struct {
	engine      *Engine
	sched       *fakeScheduler
	transport   *fakeTransport
	mu          sync.Mutex
	resolutions []Resolution
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sched:     &fakeScheduler{},
		transport: &fakeTransport{},
	}
	h.engine = NewEngine(DefaultTiming(), h.transport, func(r Resolution) {
		h.mu.Lock()
		h.resolutions = append(h.resolutions, r)
		h.mu.Unlock()
	}, WithScheduler(h.sched))
	return h
}

func (h *harness) press(code ButtonCode) Outcome {
	return h.engine.Process(RawEvent{Code: code, Phase: Pressed})
}

func (h *harness) hold(code ButtonCode, continuation int) Outcome {
	return h.engine.Process(RawEvent{Code: code, Phase: Pressed, Continuation: continuation})
}

func (h *harness) Resolutions() []Resolution {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Resolution, len(h.resolutions))
	copy(out, h.resolutions)
	return out
}

func TestEngineTapAccumulation(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 3; i++ {
		require.Equal(t, OutcomeTap, h.press(ButtonHook))
		h.sched.Advance(500 * time.Millisecond)
	}
	assert.Empty(t, h.transport.Calls(), "no command before the window closes")
	assert.Equal(t, 3, h.engine.State().Weight)

	h.sched.Advance(DefaultReleaseQuiescence)

	assert.Equal(t, []string{"seek_back:5m0s"}, h.transport.Calls())
	res := h.Resolutions()
	require.Len(t, res, 1)
	assert.Equal(t, ResolvedTap, res[0].Kind)
	assert.Equal(t, 3, res[0].Weight)
	assert.Equal(t, CommandSeekBack, res[0].Command)
}

func TestEngineMixedButtonWeights(t *testing.T) {
	h := newHarness(t)

	h.press(ButtonPlayPause) // 1
	h.press(ButtonPrevious)  // 3
	assert.Equal(t, 4, h.engine.State().Weight)

	h.sched.Advance(DefaultReleaseQuiescence)
	assert.Equal(t, []string{"step_back"}, h.transport.Calls())
}

func TestEngineStopPrecedence(t *testing.T) {
	h := newHarness(t)

	h.press(ButtonHook)
	h.press(ButtonNext)
	h.sched.Advance(300 * time.Millisecond)

	require.Equal(t, OutcomeStop, h.press(ButtonStop))
	assert.Equal(t, []string{"stop"}, h.transport.Calls())
	assert.True(t, h.engine.State().Idle())

	h.sched.Advance(10 * time.Second)
	h.sched.RunCanceled()

	assert.Equal(t, []string{"stop"}, h.transport.Calls(), "canceled resolution must never fire")
	res := h.Resolutions()
	require.Len(t, res, 1)
	assert.Equal(t, ResolvedStop, res[0].Kind)
	assert.Equal(t, 3, res[0].Weight)
}

func TestEngineStopAsContinuation(t *testing.T) {
	h := newHarness(t)

	h.press(ButtonPlay)
	h.hold(ButtonPlay, 1)
	require.Equal(t, OutcomeStop, h.hold(ButtonStop, 4))

	h.sched.Advance(5 * time.Second)
	assert.Equal(t, []string{"fast_forward", "stop"}, h.transport.Calls())
	assert.True(t, h.engine.State().Idle())
}

func TestEngineHoldNeverResolvesAsTap(t *testing.T) {
	h := newHarness(t)
	h.transport.playing = true

	require.Equal(t, OutcomeTap, h.press(ButtonPlay))
	for i := 1; i <= 6; i++ {
		h.sched.Advance(50 * time.Millisecond)
		require.Equal(t, OutcomeHold, h.hold(ButtonPlay, i))
		assert.Equal(t, TimerHold, h.engine.State().Armed)
	}

	h.sched.Advance(DefaultHoldQuiescence)
	h.sched.Advance(5 * time.Second)

	assert.Equal(t, []string{"fast_forward", "fast_forward", "play"}, h.transport.Calls())
	res := h.Resolutions()
	require.Len(t, res, 1)
	assert.Equal(t, ResolvedHold, res[0].Kind)
	assert.Equal(t, CommandPlay, res[0].Command)
	assert.True(t, h.engine.State().Idle())
}

func TestEngineHoldRestoresPausedState(t *testing.T) {
	h := newHarness(t)
	h.transport.playing = false

	h.press(ButtonHook)
	h.hold(ButtonHook, 1) // fast forward starts playback in the fake
	h.hold(ButtonHook, 2)
	h.sched.Advance(DefaultHoldQuiescence)

	calls := h.transport.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "pause", calls[len(calls)-1], "restore target predates hold feedback")
	assert.False(t, h.Resolutions()[0].WasPlaying)
}

func TestEngineHoldFeedbackByWeight(t *testing.T) {
	tests := []struct {
		name    string
		presses []ButtonCode
		want    []string
	}{
		{name: "no press", presses: nil, want: []string{"step_back", "step_back", "pause"}},
		{name: "hook", presses: []ButtonCode{ButtonHook}, want: []string{"fast_forward", "fast_forward", "pause"}},
		{name: "next", presses: []ButtonCode{ButtonNext}, want: []string{"rewind", "rewind", "pause"}},
		{name: "previous", presses: []ButtonCode{ButtonPrevious}, want: []string{"pause"}},
		{name: "two hooks", presses: []ButtonCode{ButtonHook, ButtonHook}, want: []string{"rewind", "rewind", "pause"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			code := ButtonHook
			for _, p := range tt.presses {
				h.press(p)
				code = p
			}
			for i := 1; i <= 4; i++ {
				h.hold(code, i)
			}
			h.sched.Advance(DefaultHoldQuiescence)
			assert.Equal(t, tt.want, h.transport.Calls())
		})
	}
}

func TestEngineHoldDoesNotChangeWeight(t *testing.T) {
	h := newHarness(t)

	h.press(ButtonNext)
	for i := 1; i <= 5; i++ {
		h.hold(ButtonNext, i)
		assert.Equal(t, 2, h.engine.State().Weight)
	}
}

func TestEngineDebounceRestart(t *testing.T) {
	h := newHarness(t)

	h.press(ButtonHook)
	h.sched.Advance(900 * time.Millisecond)
	h.press(ButtonHook)

	h.sched.Advance(200 * time.Millisecond) // t=1100
	assert.Empty(t, h.transport.Calls(), "first window was superseded")

	h.sched.Advance(799 * time.Millisecond) // t=1999
	assert.Empty(t, h.transport.Calls())

	h.sched.Advance(time.Millisecond) // t=2000
	assert.Equal(t, []string{"seek_forward:5m0s"}, h.transport.Calls())
}

func TestEngineIdempotentReset(t *testing.T) {
	initial := newHarness(t).engine.State()
	require.True(t, initial.Idle())

	scenarios := map[string]func(h *harness){
		"tap": func(h *harness) {
			h.press(ButtonHook)
			h.sched.Advance(DefaultReleaseQuiescence)
		},
		"hold": func(h *harness) {
			h.press(ButtonHook)
			h.hold(ButtonHook, 1)
			h.sched.Advance(DefaultHoldQuiescence)
		},
		"stop": func(h *harness) {
			h.press(ButtonNext)
			h.press(ButtonStop)
		},
		"overflow": func(h *harness) {
			for i := 0; i < 4; i++ {
				h.press(ButtonPrevious)
			}
			h.sched.Advance(DefaultReleaseQuiescence)
		},
	}

	for name, run := range scenarios {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.transport.playing = true
			run(h)
			assert.Equal(t, initial, h.engine.State())
			assert.Zero(t, h.sched.pending(), "no timer may stay armed")
		})
	}
}

func TestEngineDispatchTable(t *testing.T) {
	tests := []struct {
		taps int
		want []string
	}{
		{1, []string{"toggle"}},
		{2, []string{"seek_forward:5m0s"}},
		{3, []string{"seek_back:5m0s"}},
		{4, []string{"step_back"}},
		{5, []string{"rewind"}},
		{6, nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("weight %d", tt.taps), func(t *testing.T) {
			h := newHarness(t)
			for i := 0; i < tt.taps; i++ {
				h.press(ButtonHook)
			}
			h.sched.Advance(DefaultReleaseQuiescence)

			if tt.want == nil {
				assert.Empty(t, h.transport.Calls())
			} else {
				assert.Equal(t, tt.want, h.transport.Calls())
			}
			assert.Len(t, h.Resolutions(), 1)
		})
	}
}

func TestEngineToggleWhileSeeking(t *testing.T) {
	h := newHarness(t)
	h.transport.playing = true
	h.transport.seeking = true

	h.press(ButtonPlayPause)
	h.transport.mu.Lock()
	h.transport.playing = false
	h.transport.mu.Unlock()
	h.sched.Advance(DefaultReleaseQuiescence)

	assert.Equal(t, []string{"play"}, h.transport.Calls())
}

func TestEngineUnrecognizedInput(t *testing.T) {
	h := newHarness(t)

	assert.False(t, h.engine.Handle(RawEvent{Code: ButtonUnknown, Phase: Pressed}))
	assert.False(t, h.engine.Handle(RawEvent{Code: ButtonUnknown, Phase: Pressed, Continuation: 2}),
		"continuation with no open gesture is not ours")
	assert.True(t, h.engine.State().Idle())

	h.press(ButtonHook)
	assert.Equal(t, OutcomeAbsorbed, h.engine.Process(RawEvent{Code: ButtonUnknown, Phase: Pressed, Continuation: 1}))
	assert.Equal(t, OutcomeUnhandled, h.engine.Process(RawEvent{Code: ButtonUnknown, Phase: Pressed}))
	assert.Equal(t, TimerRelease, h.engine.State().Armed, "absorbed events leave the timer alone")
	assert.Equal(t, 1, h.engine.State().Weight)
}

func TestEngineReleaseIsConsumedWithoutEffect(t *testing.T) {
	h := newHarness(t)

	h.press(ButtonHook)
	before := h.engine.State()
	assert.True(t, h.engine.Handle(RawEvent{Code: ButtonHook, Phase: Released}))
	assert.True(t, h.engine.Handle(RawEvent{Code: ButtonUnknown, Phase: Released}))
	assert.Equal(t, before, h.engine.State())
}

func TestEngineSamplesPlayingOncePerGesture(t *testing.T) {
	h := newHarness(t)
	h.transport.playing = true

	h.press(ButtonHook)
	h.transport.mu.Lock()
	h.transport.playing = false
	h.transport.mu.Unlock()
	h.press(ButtonHook)

	assert.True(t, h.engine.State().WasPlaying)
}

func TestEngineSetTiming(t *testing.T) {
	h := newHarness(t)
	h.engine.SetTiming(Timing{ReleaseQuiescence: ResponsiveReleaseQuiescence})

	assert.Equal(t, DefaultHoldQuiescence, h.engine.Timing().HoldQuiescence)

	h.press(ButtonHook)
	h.sched.Advance(ResponsiveReleaseQuiescence)
	assert.Equal(t, []string{"toggle"}, h.transport.Calls())
}

func TestEngineStop(t *testing.T) {
	h := newHarness(t)

	h.press(ButtonHook)
	h.engine.Stop()
	h.sched.Advance(5 * time.Second)
	h.sched.RunCanceled()

	assert.Empty(t, h.transport.Calls())
	assert.False(t, h.engine.Handle(RawEvent{Code: ButtonHook, Phase: Pressed}))
}

func TestEngineRealTimers(t *testing.T) {
	transport := &fakeTransport{}
	done := make(chan Resolution, 4)
	e := NewEngine(Timing{HoldQuiescence: 20 * time.Millisecond, ReleaseQuiescence: 60 * time.Millisecond},
		transport, func(r Resolution) { done <- r })
	defer e.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Handle(RawEvent{Code: ButtonHook, Phase: Pressed})
		}()
	}
	wg.Wait()

	select {
	case r := <-done:
		assert.Equal(t, 2, r.Weight)
		assert.Equal(t, CommandSeekForward, r.Command)
	case <-time.After(2 * time.Second):
		t.Fatal("gesture never resolved")
	}

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, done, 0, "exactly one resolution per gesture")
	assert.Equal(t, []string{"seek_forward:5m0s"}, transport.Calls())
}
