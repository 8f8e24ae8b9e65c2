//go:build !linux

package evdev

import (
	"context"
	"log/slog"
)

// Reader is unavailable outside Linux
type Reader struct{}

// Open always fails with ErrUnsupported
func Open(paths []string, logger *slog.Logger) (*Reader, error) {
	return nil, ErrUnsupported
}

// Close is a no-op
func (r *Reader) Close() error { return nil }

// ReadEvents always fails with ErrUnsupported
func (r *Reader) ReadEvents(ctx context.Context, events chan<- Event) error {
	return ErrUnsupported
}
