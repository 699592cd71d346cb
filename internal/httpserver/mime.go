package httpserver

import (
	"mime"
	"path/filepath"
	"strings"
)

// guessMIME resolves a file's Content-Type by extension, falling back
// to the literal string "None" when the table has no entry -- the
// reference server's mimetypes.guess_type also returns None for an
// unrecognized extension, and the wire protocol renders that literal
// word rather than omitting the header.
//
// The standard library, rather than a pack dependency, is used for
// this lookup: MIME-type resolution is a plain
// extension-to-string table lookup, which the standard library's mime
// package already is, and nothing in the example pack provides an
// alternative worth swapping in for a single TypeByExtension call.
func guessMIME(path string) string {
	t := mime.TypeByExtension(filepath.Ext(path))
	if t == "" {
		return "None"
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
