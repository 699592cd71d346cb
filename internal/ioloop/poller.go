// Package ioloop implements the single-threaded, cooperative,
// readiness-driven event loop that every worker process runs: a small
// poller abstraction (select/poll/epoll, chosen by platform and
// availability) feeding a fixed connection-multiplexing loop.
package ioloop

import "time"

// IOEvents is a bitmask of readiness conditions a Handle can report
// interest in, or a Poller can report as observed.
type IOEvents uint32

const (
	EventRead IOEvents = 1 << iota
	EventWrite
	EventError
	EventHangup
)

// Handle is anything the loop can multiplex: a listening socket or an
// open connection. Readable/Writable report current interest, queried
// fresh on every poll cycle (no incremental registration bookkeeping).
type Handle interface {
	FD() int
	Readable() bool
	Writable() bool
	OnRead()
	OnWrite()
	OnError(err error)
}

// Poller waits for readiness on the given handles, for up to timeout,
// and dispatches OnRead/OnWrite/OnError directly. Implementations
// build their underlying kernel object fresh on every call, mirroring
// the reference server's epoll_poller, which does the same.
type Poller interface {
	Poll(timeout time.Duration, handles map[int]Handle) error
}

// NewPoller selects a poller implementation. When advanced is true and
// epoll is available (Linux), it is used; otherwise poll is used if
// available; otherwise select. This mirrors the reference
// implementation's selection between select.epoll, select.poll and
// select.select based on hasattr checks.
func NewPoller(advanced bool) Poller {
	if advanced {
		if p, err := newEpollPoller(); err == nil {
			return p
		}
	}
	if p, err := newPollPoller(); err == nil {
		return p
	}
	return newSelectPoller()
}
