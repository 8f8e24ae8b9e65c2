package mpris

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"

	statusPlaying = "Playing"
)

// ErrNoPlayer is returned when no matching MPRIS player owns a bus name
var ErrNoPlayer = errors.New("no MPRIS player found on the session bus")

// Steps are the seek sizes of the hold commands
type Steps struct {
	StepBack    time.Duration
	FastForward time.Duration
	Rewind      time.Duration
}

// caller is the subset of dbus.BusObject the player uses
type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
	GetProperty(p string) (dbus.Variant, error)
}

// Player drives a media player over the MPRIS D-Bus interface
type Player struct {
	conn    *dbus.Conn
	obj     caller
	name    string
	steps   Steps
	seeking atomic.Bool
	logger  *slog.Logger
}

// Connect attaches to the player owning name on the session bus. name may be
// a full bus name or just its suffix ("vlc"); empty picks the first player.
func Connect(name string, steps Steps, logger *slog.Logger) (*Player, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return nil, fmt.Errorf("list bus names: %w", err)
	}

	busName, err := pickPlayer(names, name)
	if err != nil {
		conn.Close()
		return nil, err
	}

	p := newPlayer(conn.Object(busName, objectPath), busName, steps, logger)
	p.conn = conn
	return p, nil
}

func newPlayer(obj caller, name string, steps Steps, logger *slog.Logger) *Player {
	return &Player{
		obj:    obj,
		name:   name,
		steps:  steps,
		logger: logger,
	}
}

// normalizeName expands a bare player suffix into a full MPRIS bus name
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, busPrefix) {
		return name
	}
	return busPrefix + name
}

// pickPlayer chooses the wanted player among the bus names. With no
// preference the lexically first MPRIS name wins so the choice is stable.
func pickPlayer(names []string, want string) (string, error) {
	want = normalizeName(want)

	var players []string
	for _, n := range names {
		if !strings.HasPrefix(n, busPrefix) {
			continue
		}
		if want == "" {
			players = append(players, n)
			continue
		}
		// players with several instances append ".instanceNNN"
		if n == want || strings.HasPrefix(n, want+".") {
			return n, nil
		}
	}

	if want != "" {
		return "", fmt.Errorf("%w: %s", ErrNoPlayer, want)
	}
	if len(players) == 0 {
		return "", ErrNoPlayer
	}

	sort.Strings(players)
	return players[0], nil
}

// micros converts an offset to the MPRIS microsecond unit
func micros(d time.Duration) int64 {
	return d.Microseconds()
}

// Name returns the bus name of the attached player
func (p *Player) Name() string {
	return p.name
}

func (p *Player) call(method string, args ...interface{}) error {
	if err := p.obj.Call(playerIface+"."+method, 0, args...).Err; err != nil {
		return fmt.Errorf("%s.%s: %w", p.name, method, err)
	}
	return nil
}

// PlayPause toggles playback
func (p *Player) PlayPause() error {
	p.seeking.Store(false)
	return p.call("PlayPause")
}

// Play starts playback
func (p *Player) Play() error {
	p.seeking.Store(false)
	return p.call("Play")
}

// Pause pauses playback
func (p *Player) Pause() error {
	p.seeking.Store(false)
	return p.call("Pause")
}

// Stop stops playback
func (p *Player) Stop() error {
	p.seeking.Store(false)
	return p.call("Stop")
}

// Seek moves the position by offset; negative offsets seek backwards
func (p *Player) Seek(offset time.Duration) error {
	return p.call("Seek", micros(offset))
}

// StepBack jumps back by the configured step
func (p *Player) StepBack() error {
	return p.Seek(-p.steps.StepBack)
}

// FastForward skips ahead one step and marks a seek in progress
func (p *Player) FastForward() error {
	p.seeking.Store(true)
	return p.Seek(p.steps.FastForward)
}

// Rewind skips back one step and marks a seek in progress
func (p *Player) Rewind() error {
	p.seeking.Store(true)
	return p.Seek(-p.steps.Rewind)
}

// IsPlaying reports whether PlaybackStatus is "Playing"
func (p *Player) IsPlaying() (bool, error) {
	v, err := p.obj.GetProperty(playerIface + ".PlaybackStatus")
	if err != nil {
		return false, fmt.Errorf("%s.PlaybackStatus: %w", p.name, err)
	}
	status, ok := v.Value().(string)
	if !ok {
		return false, fmt.Errorf("%s.PlaybackStatus: unexpected type %s", p.name, v.Signature())
	}
	return status == statusPlaying, nil
}

// IsSeeking reports whether a fast-forward or rewind is in progress
func (p *Player) IsSeeking() bool {
	return p.seeking.Load()
}

// Close releases the bus connection
func (p *Player) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
