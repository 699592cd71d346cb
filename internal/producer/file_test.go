package producer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileProducerStreamsInChunksAndCloses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.txt")
	content := strings.Repeat("x", fileChunkSize*2+17)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)

	p := NewFileProducer(f)
	var out []byte
	for {
		chunk := p.More(nil)
		if chunk == nil {
			break
		}
		out = append(out, chunk...)
	}

	require.Equal(t, content, string(out))
	require.True(t, p.closed)

	// Reading after close (End Of File) is a no-op, not a panic.
	require.Nil(t, p.More(nil))
}
