package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pleimann/hookpad/internal/action"
	"github.com/pleimann/hookpad/internal/config"
	"github.com/pleimann/hookpad/internal/evdev"
	"github.com/pleimann/hookpad/internal/gesture"
	"github.com/pleimann/hookpad/internal/hid"
	"github.com/pleimann/hookpad/internal/input"
	"github.com/pleimann/hookpad/internal/journal"
	"github.com/pleimann/hookpad/internal/mpris"
)

const eventBuffer = 64

type App struct {
	config     *config.Config
	previous   *config.Config
	watcher    *config.Watcher
	logger     *slog.Logger
	player     *mpris.Player
	executor   *action.Executor
	engine     *gesture.Engine
	mapper     *input.Mapper
	translator *input.Translator
	journal    *journal.Journal
}

func newApp(watcher *config.Watcher, logger *slog.Logger) (*App, error) {
	cfg := watcher.Get()
	app := &App{
		config:   cfg,
		previous: cfg,
		watcher:  watcher,
		logger:   logger,
	}

	player, err := mpris.Connect(cfg.Transport.Player, mpris.Steps{
		StepBack:    time.Duration(cfg.Transport.StepBackMs) * time.Millisecond,
		FastForward: time.Duration(cfg.Transport.FastForwardMs) * time.Millisecond,
		Rewind:      time.Duration(cfg.Transport.RewindMs) * time.Millisecond,
	}, logger)
	if err != nil {
		if errors.Is(err, mpris.ErrNoPlayer) {
			return nil, fmt.Errorf("%w\n  Start a media player first, or set transport.player in the config", err)
		}
		return nil, fmt.Errorf("failed to connect to media player: %w", err)
	}
	app.player = player
	logger.Info("Connected to media player", "bus_name", player.Name())

	if cfg.Journal.IsEnabled() {
		path := cfg.Journal.Path
		if path == "" {
			if path, err = journal.DefaultPath(); err != nil {
				player.Close()
				return nil, err
			}
		}
		j, err := journal.Open(path, logger)
		if err != nil {
			player.Close()
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		app.journal = j
		logger.Debug("Recording gestures", "path", j.Path())
	}

	app.executor = action.NewExecutor(player, logger)
	app.mapper = input.NewMapper(cfg)
	app.translator = input.NewTranslator(app.mapper)
	app.engine = gesture.NewEngine(cfg.Timing.Gesture(), app.executor, app.onResolve,
		gesture.WithLogger(logger))

	watcher.OnReload(app.reload)

	return app, nil
}

func (a *App) onResolve(r gesture.Resolution) {
	if a.journal != nil {
		a.journal.Record(r)
	}
}

// reload runs on the watcher goroutine only
func (a *App) reload(cfg *config.Config) {
	a.engine.SetTiming(cfg.Timing.Gesture())
	a.mapper.Reload(cfg)

	for _, section := range restartRequired(a.previous, cfg) {
		a.logger.Warn("Change takes effect after restart", "section", section)
	}
	a.previous = cfg

	a.logger.Info("Configuration reloaded",
		"hold_quiescence_ms", cfg.Timing.HoldQuiescenceMs,
		"release_quiescence_ms", cfg.Timing.ReleaseQuiescenceMs,
		"buttons", len(cfg.Buttons))
}

// restartRequired names the config sections that changed between prev and
// next but are only read at startup
func restartRequired(prev, next *config.Config) []string {
	var sections []string
	if next.Device.Source != prev.Device.Source ||
		next.Device.VendorID != prev.Device.VendorID ||
		next.Device.ProductID != prev.Device.ProductID ||
		!slices.Equal(next.Device.Paths, prev.Device.Paths) {
		sections = append(sections, "device")
	}
	if next.Transport != prev.Transport {
		sections = append(sections, "transport")
	}
	if next.Journal.IsEnabled() != prev.Journal.IsEnabled() || next.Journal.Path != prev.Journal.Path {
		sections = append(sections, "journal")
	}
	return sections
}

func (a *App) Run(ctx context.Context) error {
	a.watcher.Start(ctx)
	a.executor.Start(ctx)
	defer a.shutdown()

	a.logger.Info("Listening for button gestures", "source", a.config.Device.Source)

	switch a.config.Device.Source {
	case config.SourceEvdev:
		return a.runEvdev(ctx)
	default:
		return a.runHID(ctx)
	}
}

func (a *App) pollInterval() time.Duration {
	return time.Duration(a.config.Device.PollIntervalMs) * time.Millisecond
}

func (a *App) runHID(ctx context.Context) error {
	dev, err := hid.NewDevice(a.config.Device.VendorID, a.config.Device.ProductID, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open HID device: %w", err)
	}
	defer dev.Close()

	for {
		err := pump(ctx, dev.ReadEvents, func(ev hid.Event) {
			a.dispatch(a.translator.FromHID(ev))
		})
		if ctx.Err() != nil {
			return nil
		}

		a.logger.Warn("HID device disconnected, waiting for it to return", "error", err)
		a.translator.Reset()
		if err := dev.WaitForDevice(ctx, a.pollInterval()); err != nil {
			return nil
		}
		a.logger.Info("HID device reconnected")
	}
}

func (a *App) runEvdev(ctx context.Context) error {
	ticker := time.NewTicker(a.pollInterval())
	defer ticker.Stop()

	for {
		reader, err := evdev.Open(a.config.Device.Paths, a.logger)
		if errors.Is(err, evdev.ErrUnsupported) {
			return err
		}
		if err == nil {
			err = pump(ctx, reader.ReadEvents, func(ev evdev.Event) {
				a.dispatch(a.translator.FromEvdev(ev))
			})
			reader.Close()
			if ctx.Err() != nil {
				return nil
			}
		}

		a.logger.Warn("Input devices unavailable, retrying", "paths", a.config.Device.Paths, "error", err)
		a.translator.Reset()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (a *App) dispatch(raw gesture.RawEvent) {
	if !a.engine.Handle(raw) {
		a.logger.Debug("Ignored button event", "event", raw.String())
	}
}

// pump runs read in the background and hands each event to handle on the
// calling goroutine until read returns
func pump[T any](ctx context.Context, read func(context.Context, chan<- T) error, handle func(T)) error {
	events := make(chan T, eventBuffer)
	errc := make(chan error, 1)
	go func() {
		errc <- read(ctx, events)
	}()

	for {
		select {
		case ev := <-events:
			handle(ev)
		case err := <-errc:
			for {
				select {
				case ev := <-events:
					handle(ev)
				default:
					return err
				}
			}
		}
	}
}

func (a *App) shutdown() {
	a.logger.Debug("Shutting down")
	a.engine.Stop()
	a.executor.Close()
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("Failed to close journal", "error", err)
		}
	}
	a.player.Close()
	a.watcher.Stop()
}
