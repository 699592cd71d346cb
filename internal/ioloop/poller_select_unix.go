//go:build unix

package ioloop

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// selectPoller wraps select(2), the last-resort poller. It sleeps out
// the timeout without a syscall when there are no handles at all,
// guarding against a busy spin on an empty registry.
type selectPoller struct{}

func newSelectPoller() *selectPoller {
	return &selectPoller{}
}

func (p *selectPoller) Poll(timeout time.Duration, handles map[int]Handle) error {
	if len(handles) == 0 {
		time.Sleep(timeout)
		return nil
	}

	var readFDs, writeFDs, errFDs unix.FdSet
	fdZero(&readFDs)
	fdZero(&writeFDs)
	fdZero(&errFDs)

	maxFD := 0
	for fd, h := range handles {
		if h.Readable() {
			fdSet(fd, &readFDs)
		}
		if h.Writable() {
			fdSet(fd, &writeFDs)
		}
		fdSet(fd, &errFDs)
		if fd > maxFD {
			maxFD = fd
		}
	}

	tv := unix.NsecToTimeval(timeout.Nanoseconds())
	n, err := unix.Select(maxFD+1, &readFDs, &writeFDs, &errFDs, &tv)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	for fd, h := range handles {
		if fdIsSet(fd, &errFDs) {
			h.OnError(fmt.Errorf("fd %d: select reported error", fd))
			continue
		}
		if fdIsSet(fd, &readFDs) {
			h.OnRead()
		}
		if fdIsSet(fd, &writeFDs) {
			h.OnWrite()
		}
	}
	return nil
}
