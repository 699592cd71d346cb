package httpserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestReaderParsesRequestLineOnceTerminatorArrives(t *testing.T) {
	var r requestReader
	method, target, ready := r.Feed([]byte("GET /index.html HTTP/1.0\r\n"))
	require.False(t, ready)
	require.Empty(t, method)

	method, target, ready = r.Feed([]byte("Host: example\r\n\r\n"))
	require.True(t, ready)
	require.Equal(t, "GET", method)
	require.Equal(t, "/index.html", target)
}

func TestRequestReaderHandlesSingleReadContainingWholeRequest(t *testing.T) {
	var r requestReader
	method, target, ready := r.Feed([]byte("HEAD /a.txt HTTP/1.0\r\n\r\n"))
	require.True(t, ready)
	require.Equal(t, "HEAD", method)
	require.Equal(t, "/a.txt", target)
}

func TestRequestReaderIgnoresFurtherFeedsAfterDone(t *testing.T) {
	var r requestReader
	_, _, ready := r.Feed([]byte("GET / HTTP/1.0\r\n\r\n"))
	require.True(t, ready)

	_, _, ready = r.Feed([]byte("GET /second HTTP/1.0\r\n\r\n"))
	require.False(t, ready)
}

func TestDecodeLatin1RoundTripsHighBytes(t *testing.T) {
	b := []byte{0x41, 0xE9, 0x42}
	s := decodeLatin1(b)
	require.Equal(t, rune(0xE9), []rune(s)[1])
}
