package httpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRequestContextJoinsAndCanonicalizesUnderRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("hi"), 0o644))

	rc := newRequestContext(dir, "/index.html")
	require.True(t, rc.verifyGet())
	require.Equal(t, 200, rc.Code)
}

func TestNewRequestContextRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("nope"), 0o644))

	rc := newRequestContext(root, "/../secret.txt")
	require.False(t, rc.verifyGet())
	require.Equal(t, 403, rc.Code)
}

func TestNewRequestContextMissingFileIs404(t *testing.T) {
	dir := t.TempDir()

	rc := newRequestContext(dir, "/does-not-exist.txt")
	require.False(t, rc.verifyGet())
	require.Equal(t, 404, rc.Code)
}

func TestNewRequestContextDirectoryResolvesToIndexHTML(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "index.html"), []byte("idx"), 0o644))

	rc := newRequestContext(dir, "/sub/")
	require.True(t, rc.verifyGet())
	require.Equal(t, filepath.Join(sub, "index.html"), rc.Target)
}

func TestNewRequestContextSplitsQueryString(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.html"), []byte("p"), 0o644))

	rc := newRequestContext(dir, "/page.html?a=1&b=2")
	require.Equal(t, "a=1&b=2", rc.QueryString)
	require.True(t, rc.verifyGet())
}

func TestNewRequestContextDecodesPercentEncoding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a b.txt"), []byte("s"), 0o644))

	rc := newRequestContext(dir, "/a%20b.txt")
	require.True(t, rc.verifyGet())
}

func TestRealpathToleratesMissingTrailingComponent(t *testing.T) {
	dir := t.TempDir()
	p, err := realpath(filepath.Join(dir, "missing", "also-missing.txt"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "missing", "also-missing.txt"), p)
}
