package producer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type staticProducer struct {
	chunks [][]byte
	i      int
}

func (p *staticProducer) More(Enqueuer) []byte {
	if p.i >= len(p.chunks) {
		return nil
	}
	c := p.chunks[p.i]
	p.i++
	return c
}

func drain(t *testing.T, q *Queue) string {
	t.Helper()
	var out []byte
	for !q.Empty() {
		err := q.Pump(func(p []byte) (int, error) {
			out = append(out, p...)
			return len(p), nil
		})
		require.NoError(t, err)
	}
	return string(out)
}

func TestQueuePumpDrainsSingleProducer(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&staticProducer{chunks: [][]byte{[]byte("hello "), []byte("world")}})

	require.Equal(t, "hello world", drain(t, q))
	require.False(t, q.CloseRequested())
}

func TestQueuePumpHandlesCloseSentinel(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&staticProducer{chunks: [][]byte{[]byte("x")}})
	q.Enqueue(closeAfterDrain{})

	require.Equal(t, "x", drain(t, q))
	require.True(t, q.CloseRequested())
}

func TestQueuePumpStopsOnWouldBlockAndResumesSameChunk(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&staticProducer{chunks: [][]byte{[]byte("abcdef")}})

	var out []byte
	blocked := false
	err := q.Pump(func(p []byte) (int, error) {
		if !blocked {
			blocked = true
			return 0, ErrWouldBlock
		}
		out = append(out, p...)
		return len(p), nil
	})
	require.NoError(t, err)
	require.Empty(t, out)
	require.False(t, q.Empty())

	err = q.Pump(func(p []byte) (int, error) {
		out = append(out, p...)
		return len(p), nil
	})
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(out))
}

func TestQueuePumpHandlesPartialWrites(t *testing.T) {
	q := NewQueue()
	q.Enqueue(&staticProducer{chunks: [][]byte{[]byte("abcdef")}})

	var out []byte
	err := q.Pump(func(p []byte) (int, error) {
		n := 2
		if n > len(p) {
			n = len(p)
		}
		out = append(out, p[:n]...)
		return n, nil
	})
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(out))
}

func TestQueueEnqueueFrontOrdersChildBeforeContinuation(t *testing.T) {
	q := NewQueue()
	continuation := &staticProducer{chunks: [][]byte{[]byte("B")}}
	q.EnqueueFront(continuation)
	child := &staticProducer{chunks: [][]byte{[]byte("A")}}
	q.EnqueueFront(child)

	require.Equal(t, "AB", drain(t, q))
}
