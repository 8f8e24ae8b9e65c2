package gesture

// MaxHoldFeedback is the number of re-deliveries that trigger hold feedback.
// Held buttons are re-delivered about every 50ms; only the first two fire.
const MaxHoldFeedback = 2

// HoldTracker numbers repeated presses of a key that has not been released.
// It serves input sources that signal a hold by re-sending the press.
// Not safe for concurrent use.
type HoldTracker struct {
	held map[int]int
}

// NewHoldTracker creates an empty tracker
func NewHoldTracker() *HoldTracker {
	return &HoldTracker{held: make(map[int]int)}
}

// Press records a press (or autorepeat) of key and returns its continuation
// index: 0 for the first press, then 1, 2, 3... until the key is released.
func (t *HoldTracker) Press(key int) int {
	n, down := t.held[key]
	if !down {
		t.held[key] = 0
		return 0
	}
	n++
	t.held[key] = n
	return n
}

// Release forgets key
func (t *HoldTracker) Release(key int) {
	delete(t.held, key)
}

// Held reports whether key is currently down
func (t *HoldTracker) Held(key int) bool {
	_, ok := t.held[key]
	return ok
}

// Reset forgets every key, e.g. after a device reconnect
func (t *HoldTracker) Reset() {
	t.held = make(map[int]int)
}

func feedbackAllowed(continuation int) bool {
	return continuation > 0 && continuation <= MaxHoldFeedback
}
