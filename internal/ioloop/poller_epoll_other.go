//go:build !linux

package ioloop

import "time"

// epollPoller is unavailable outside Linux; NewPoller falls back to
// poll, then select, exactly as the reference server does when
// select.epoll doesn't exist on the running platform.
type epollPoller struct{}

func newEpollPoller() (*epollPoller, error) {
	return nil, ErrPollerUnavailable
}

func (p *epollPoller) Poll(time.Duration, map[int]Handle) error {
	return ErrPollerUnavailable
}
