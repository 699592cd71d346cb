package ioloop

import "errors"

var (
	// ErrLoopClosed is returned by Loop.Run once Stop has been called.
	// A registry that drains to empty makes Run return nil instead.
	ErrLoopClosed = errors.New("ioloop: loop closed")

	// ErrPollerUnavailable is returned by a poller constructor when
	// its underlying mechanism isn't supported on the current
	// platform.
	ErrPollerUnavailable = errors.New("ioloop: poller unavailable on this platform")
)
