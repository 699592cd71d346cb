//go:build linux

package ioloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestEpollPollerDispatchesReadOnHangupRatherThanOnlyError(t *testing.T) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	require.NoError(t, unix.Close(fds[1]))
	defer func() { _ = unix.Close(fds[0]) }()

	h := &hupHandle{fd: fds[0]}
	p, err := newEpollPoller()
	require.NoError(t, err)

	require.NoError(t, p.Poll(100*time.Millisecond, map[int]Handle{fds[0]: h}))
	require.Equal(t, 1, h.onReadCalls)
	require.Equal(t, 0, h.onErrorCalls)
}
