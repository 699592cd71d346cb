package ioloop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// defaultTimeout bounds how long a single poll cycle blocks when no
// handle is interested in anything, matching the reference server's
// 30-second default loop timeout.
const defaultTimeout = 30 * time.Second

// Loop drives a Poller against a registry of Handles until the
// registry is empty or it is stopped. It is not safe for concurrent
// use: exactly one goroutine should ever call Run, Register, Unregister
// or Stop for a given Loop, mirroring the single-threaded, cooperative
// model the server relies on.
type Loop struct {
	poller  Poller
	handles map[int]Handle
	stopped bool
	fatal   error
}

// NewLoop constructs a Loop around the given Poller.
func NewLoop(poller Poller) *Loop {
	return &Loop{
		poller:  poller,
		handles: make(map[int]Handle),
	}
}

// Register adds a handle to the loop, to be polled from the next
// cycle onward.
func (l *Loop) Register(h Handle) {
	l.handles[h.FD()] = h
}

// Unregister removes a handle from the loop. It does not close the
// underlying descriptor; callers own that.
func (l *Loop) Unregister(fd int) {
	delete(l.handles, fd)
}

// Stop causes the current or next Run call to return ErrLoopClosed.
func (l *Loop) Stop() {
	l.stopped = true
}

// Fail records a fatal error from a Handle (e.g. a listener whose
// accept loop hit an unrecoverable failure) and causes the current or
// next Run call to return it once the in-flight poll cycle finishes.
// Unlike OnError, which reports a per-handle condition the loop
// survives, Fail terminates the loop itself.
func (l *Loop) Fail(err error) {
	if l.fatal == nil {
		l.fatal = err
	}
}

// Run polls repeatedly until the registry is empty, ctx is canceled,
// Stop is called, or a Handle reports a fatal error via Fail. EINTR is
// swallowed and retried transparently; any other poll error stops the
// loop and is returned to the caller. Per-handle errors are delivered
// to Handle.OnError and never stop the loop themselves.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if l.fatal != nil {
			return l.fatal
		}
		if l.stopped {
			return ErrLoopClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(l.handles) == 0 {
			return nil
		}

		snapshot := make(map[int]Handle, len(l.handles))
		for fd, h := range l.handles {
			snapshot[fd] = h
		}

		if err := l.poller.Poll(defaultTimeout, snapshot); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("ioloop: poll: %w", err)
		}
	}
}
