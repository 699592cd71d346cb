package httpserver

import (
	"fmt"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/plainhttpd/internal/ioloop"
	"golang.org/x/sys/unix"
)

// Listener implements ioloop.Handle for the shared, accepting socket.
// Every accepted connection is wrapped and registered on the same
// loop, never handed off to another thread.
type Listener struct {
	fd   int
	root string
	log  *logiface.Logger[logiface.Event]
	loop *ioloop.Loop
}

// NewListener wraps an already-bound, listening, non-blocking fd.
func NewListener(fd int, root string, log *logiface.Logger[logiface.Event], loop *ioloop.Loop) *Listener {
	return &Listener{fd: fd, root: root, log: log, loop: loop}
}

func (l *Listener) FD() int { return l.fd }

func (l *Listener) Readable() bool { return true }

func (l *Listener) Writable() bool { return false }

// OnRead drains every connection the kernel has ready to hand back,
// since a single readiness notification can represent more than one
// pending connection under load.
func (l *Listener) OnRead() {
	for {
		nfd, _, err := unix.Accept(l.fd)
		if err != nil {
			if isWouldBlock(err) {
				return
			}
			l.log.Warning().Err(err).Log("accept failed")
			l.loop.Fail(fmt.Errorf("httpserver: accept: %w", err))
			return
		}
		if err := unix.SetNonblock(nfd, true); err != nil {
			l.log.Warning().Err(err).Log("set nonblocking failed")
			_ = unix.Close(nfd)
			continue
		}
		l.log.Info().Int("fd", nfd).Log("accepted connection")
		l.loop.Register(NewConnection(nfd, l.root, l.log, l.loop))
	}
}

func (l *Listener) OnWrite() {}

func (l *Listener) OnError(err error) {
	l.log.Err(err).Log("listener error")
}

// BindListener creates, binds and listens on a non-blocking TCP socket
// with both SO_REUSEADDR and SO_REUSEPORT set. The supervisor calls it
// once and passes the resulting fd to every worker process, which all
// accept on that one shared socket.
func BindListener(port int) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("httpserver: socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("httpserver: setsockopt SO_REUSEADDR: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("httpserver: setsockopt SO_REUSEPORT: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("httpserver: bind: %w", err)
	}
	if err := unix.Listen(fd, 5); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("httpserver: listen: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("httpserver: set nonblocking: %w", err)
	}
	return fd, nil
}
