package httpserver

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/plainhttpd/internal/ioloop"
	"github.com/joeycumines/plainhttpd/internal/logging"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// TestListenerOnReadPropagatesPersistentAcceptFailure closes the
// listening fd out from under the Listener before a readiness
// notification is dispatched, forcing accept(2) to fail with EBADF
// (a non-would-block error). The worker's loop must exit rather than
// spin forever re-polling a persistently broken listener.
func TestListenerOnReadPropagatesPersistentAcceptFailure(t *testing.T) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	require.NoError(t, unix.Close(fd))

	log := logging.New(io.Discard, logiface.LevelInformational, os.Getpid())
	loop := ioloop.NewLoop(ioloop.NewPoller(true))
	listener := NewListener(fd, t.TempDir(), log, loop)
	loop.Register(listener)

	listener.OnRead()

	err = loop.Run(context.Background())
	require.Error(t, err)
}
