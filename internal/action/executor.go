package action

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pleimann/hookpad/internal/gesture"
)

// Player is the media player the executor drives
type Player interface {
	PlayPause() error
	Play() error
	Pause() error
	Stop() error
	Seek(offset time.Duration) error
	StepBack() error
	FastForward() error
	Rewind() error
	IsPlaying() (bool, error)
	IsSeeking() bool
}

var _ gesture.Transport = (*Executor)(nil)

type command struct {
	name string
	run  func() error
}

// Executor runs transport commands on a single worker in arrival order.
// Commands never block the caller; failures are logged and dropped.
type Executor struct {
	player Player
	logger *slog.Logger

	mu      sync.Mutex
	queue   []command
	wake    chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
	started bool
	closed  bool
}

// NewExecutor creates a new executor for player
func NewExecutor(player Player, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		player: player,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Start launches the worker. It runs until ctx is canceled or Close is called.
func (e *Executor) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.closed {
		return
	}
	e.started = true

	ctx, e.cancel = context.WithCancel(ctx)
	go e.run(ctx)
}

// Close halts the worker and waits for the command in flight to finish.
// Queued commands that have not started are discarded, and commands
// queued afterwards are dropped.
func (e *Executor) Close() {
	e.mu.Lock()
	e.closed = true
	e.queue = nil
	cancel := e.cancel
	started := e.started
	e.mu.Unlock()

	if !started {
		return
	}
	cancel()
	<-e.done
}

func (e *Executor) run(ctx context.Context) {
	defer close(e.done)

	for {
		select {
		case <-ctx.Done():
			e.mu.Lock()
			if n := len(e.queue); n > 0 {
				e.logger.Debug("Discarding queued commands", "count", n)
			}
			e.queue = nil
			e.closed = true
			e.mu.Unlock()
			return
		case <-e.wake:
		}

		for {
			e.mu.Lock()
			if len(e.queue) == 0 || ctx.Err() != nil {
				e.mu.Unlock()
				break
			}
			cmd := e.queue[0]
			e.queue = e.queue[1:]
			e.mu.Unlock()

			e.logger.Debug("Executing command", "command", cmd.name)
			if err := cmd.run(); err != nil {
				e.logger.Warn("Command failed", "command", cmd.name, "error", err)
			}
		}
	}
}

func (e *Executor) enqueue(name string, run func() error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.logger.Debug("Dropping command after close", "command", name)
		return
	}
	e.queue = append(e.queue, command{name: name, run: run})
	e.mu.Unlock()

	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// PlaybackToggle queues a play/pause toggle
func (e *Executor) PlaybackToggle() { e.enqueue("toggle", e.player.PlayPause) }

// Play queues a play command
func (e *Executor) Play() { e.enqueue("play", e.player.Play) }

// Pause queues a pause command
func (e *Executor) Pause() { e.enqueue("pause", e.player.Pause) }

// Stop queues a stop command
func (e *Executor) Stop() { e.enqueue("stop", e.player.Stop) }

// StepBack queues a short backwards jump
func (e *Executor) StepBack() { e.enqueue("step_back", e.player.StepBack) }

// FastForward queues one fast-forward step
func (e *Executor) FastForward() { e.enqueue("fast_forward", e.player.FastForward) }

// Rewind queues one rewind step
func (e *Executor) Rewind() { e.enqueue("rewind", e.player.Rewind) }

// SeekForward queues a forward seek by d
func (e *Executor) SeekForward(d time.Duration) {
	e.enqueue("seek_forward", func() error { return e.player.Seek(d) })
}

// SeekBack queues a backward seek by d
func (e *Executor) SeekBack(d time.Duration) {
	e.enqueue("seek_back", func() error { return e.player.Seek(-d) })
}

// IsPlaying asks the player directly; a failed query counts as not playing
func (e *Executor) IsPlaying() bool {
	playing, err := e.player.IsPlaying()
	if err != nil {
		e.logger.Warn("Playback status query failed", "error", err)
		return false
	}
	return playing
}

// IsSeeking reports whether the player has a seek in progress
func (e *Executor) IsSeeking() bool {
	return e.player.IsSeeking()
}
