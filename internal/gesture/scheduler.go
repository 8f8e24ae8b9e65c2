package gesture

import (
	"sync"
	"time"
)

// Handle identifies an armed delayed action
type Handle interface {
	// Stop prevents the action from running if it has not started yet.
	// It reports whether the call stopped the action.
	Stop() bool
}

// Scheduler arms and cancels delayed actions
type Scheduler interface {
	Arm(delay time.Duration, action func()) Handle
	Cancel(h Handle)
}

// TimerScheduler runs delayed actions on runtime timers
type TimerScheduler struct{}

// Arm schedules action to run after delay
func (TimerScheduler) Arm(delay time.Duration, action func()) Handle {
	return &timerHandle{timer: time.AfterFunc(delay, action)}
}

// Cancel stops h. A nil handle is ignored.
func (TimerScheduler) Cancel(h Handle) {
	if h != nil {
		h.Stop()
	}
}

type timerHandle struct {
	once  sync.Once
	timer *time.Timer
}

func (h *timerHandle) Stop() bool {
	stopped := false
	h.once.Do(func() {
		stopped = h.timer.Stop()
	})
	return stopped
}
