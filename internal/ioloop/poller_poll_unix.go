//go:build unix

package ioloop

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// pollPoller wraps poll(2). A fresh []unix.PollFd slice is built from
// the handle registry on every call, matching the uniform "rebuild
// each cycle" contract the select-based pollers follow too.
type pollPoller struct{}

func newPollPoller() (*pollPoller, error) {
	return &pollPoller{}, nil
}

func (p *pollPoller) Poll(timeout time.Duration, handles map[int]Handle) error {
	if len(handles) == 0 {
		time.Sleep(timeout)
		return nil
	}

	fds := make([]unix.PollFd, 0, len(handles))
	order := make([]int, 0, len(handles))
	for fd, h := range handles {
		events := int16(unix.POLLERR | unix.POLLHUP | unix.POLLNVAL)
		if h.Readable() {
			events |= unix.POLLIN | unix.POLLPRI
		}
		if h.Writable() {
			events |= unix.POLLOUT
		}
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: events})
		order = append(order, fd)
	}

	_, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err != nil {
		return err
	}

	for i, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}
		h := handles[order[i]]
		if pfd.Revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
			h.OnError(fmt.Errorf("fd %d: poll reported error", order[i]))
			continue
		}
		if pfd.Revents&(unix.POLLIN|unix.POLLPRI|unix.POLLHUP) != 0 {
			h.OnRead()
		}
		if pfd.Revents&unix.POLLOUT != 0 {
			h.OnWrite()
		}
	}
	return nil
}
