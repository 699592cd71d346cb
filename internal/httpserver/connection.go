package httpserver

import (
	"fmt"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/plainhttpd/internal/ioloop"
	"github.com/joeycumines/plainhttpd/internal/producer"
	"golang.org/x/sys/unix"
)

// connState is the connection's small state machine, per spec: read
// the request headers, write the response, then close.
type connState int

const (
	stateReadingHeaders connState = iota
	stateWriting
	stateClosing
)

// Connection implements ioloop.Handle for one accepted client socket:
// it owns the non-blocking fd, the request reader, and the response
// producer queue.
type Connection struct {
	fd     int
	root   string
	log    *logiface.Logger[logiface.Event]
	loop   *ioloop.Loop
	reader requestReader
	queue  *producer.Queue
	state  connState
}

// NewConnection wraps an already-accepted, non-blocking fd.
func NewConnection(fd int, root string, log *logiface.Logger[logiface.Event], loop *ioloop.Loop) *Connection {
	return &Connection{
		fd:    fd,
		root:  root,
		log:   log,
		loop:  loop,
		queue: producer.NewQueue(),
		state: stateReadingHeaders,
	}
}

func (c *Connection) FD() int { return c.fd }

func (c *Connection) Readable() bool { return c.state == stateReadingHeaders }

func (c *Connection) Writable() bool { return c.state == stateWriting }

// OnRead is called when the socket has data to read. Per spec, reads
// are bounded and non-blocking; once the full header block has
// arrived, the request is dispatched immediately and the connection
// switches to writing.
func (c *Connection) OnRead() {
	buf := make([]byte, 4096)
	n, err := unix.Read(c.fd, buf)
	if err != nil {
		if isWouldBlock(err) {
			return
		}
		c.fail(fmt.Errorf("read: %w", err))
		return
	}
	if n == 0 {
		c.close()
		return
	}

	method, target, ready := c.reader.Feed(buf[:n])
	if !ready {
		return
	}

	c.log.Info().Str("method", method).Str("target", target).Log("request received")
	resp := dispatchRequest(c.root, method, target, time.Now())
	c.queue.Enqueue(producer.NewGeneratorProducer(resp.sequence, connectionLogAdapter{c}))
	c.state = stateWriting
}

// OnWrite drains as much of the response queue as the socket will
// accept right now, closing the connection once the queue both
// requests and achieves a drained close.
func (c *Connection) OnWrite() {
	err := c.queue.Pump(func(p []byte) (int, error) {
		n, werr := unix.Write(c.fd, p)
		if werr != nil {
			if isWouldBlock(werr) {
				return 0, producer.ErrWouldBlock
			}
			return n, werr
		}
		return n, nil
	})
	if err != nil {
		c.fail(fmt.Errorf("write: %w", err))
		return
	}
	if c.queue.CloseRequested() && c.queue.Empty() {
		c.close()
	}
}

func (c *Connection) OnError(err error) {
	c.log.Warning().Err(err).Log("connection error")
	c.close()
}

func (c *Connection) fail(err error) {
	c.log.Warning().Err(err).Log("connection failed")
	c.close()
}

func (c *Connection) close() {
	if c.state == stateClosing {
		return
	}
	c.state = stateClosing
	c.loop.Unregister(c.fd)
	_ = unix.Close(c.fd)
}

func isWouldBlock(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}

// connectionLogAdapter narrows a Connection's logger down to the
// small producer.Logger interface GeneratorProducer needs.
type connectionLogAdapter struct{ c *Connection }

func (a connectionLogAdapter) Warn(msg string, err error) {
	a.c.log.Warning().Err(err).Log(msg)
}
