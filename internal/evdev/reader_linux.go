//go:build linux

package evdev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// pollTimeoutMs bounds each epoll_wait so context cancellation is noticed
const pollTimeoutMs = 250

// Reader multiplexes several input devices through one epoll instance
type Reader struct {
	files  []*os.File
	logger *slog.Logger
}

// Open opens every device path for reading
func Open(paths []string, logger *slog.Logger) (*Reader, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input devices provided")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Reader{logger: logger}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		r.files = append(r.files, f)
	}
	return r, nil
}

// Close closes all devices
func (r *Reader) Close() error {
	var errs []error
	for _, f := range r.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.files = nil
	return errors.Join(errs...)
}

// ReadEvents blocks delivering key events until ctx is canceled or a device fails
func (r *Reader) ReadEvents(ctx context.Context, events chan<- Event) error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("epoll_create1: %w", err)
	}
	defer unix.Close(epfd)

	fdToFile := make(map[int32]*os.File, len(r.files))
	for _, f := range r.files {
		fd := int(f.Fd())
		fdToFile[int32(fd)] = f

		event := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
			return fmt.Errorf("epoll_ctl_add %s: %w", f.Name(), err)
		}
	}

	const maxEvents = 32
	ready := make([]unix.EpollEvent, maxEvents)
	// the kernel may hand over several records per read
	buf := make([]byte, inputEventSize*16)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := unix.EpollWait(epfd, ready, pollTimeoutMs)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}

		for i := 0; i < n; i++ {
			f := fdToFile[ready[i].Fd]
			if ready[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
				return fmt.Errorf("device error/hangup: %s", f.Name())
			}

			read, err := f.Read(buf)
			if err != nil {
				return fmt.Errorf("read from %s: %w", f.Name(), err)
			}

			for off := 0; off+inputEventSize <= read; off += inputEventSize {
				raw, err := decode(buf[off : off+inputEventSize])
				if err != nil {
					r.logger.Debug("skipping malformed input event", "device", f.Name(), "error", err)
					continue
				}
				ev, ok := keyEvent(f.Name(), raw)
				if !ok {
					continue
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}
