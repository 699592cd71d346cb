// Package logging wires the server's structured logging: the
// backend-agnostic github.com/joeycumines/logiface facade, backed by
// github.com/rs/zerolog, rendering every record through a custom
// zerolog.LevelWriter into the wire protocol's exact log-line format.
package logging

import (
	"io"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// New builds the server's logger, writing to out at the given level.
// pid is embedded in every rendered line, per the wire protocol's
// "[<pid>: ...]" prefix.
func New(out io.Writer, level logiface.Level, pid int) *logiface.Logger[logiface.Event] {
	writer := &lineWriter{out: out, pid: pid}
	zl := zerolog.New(writer).With().Timestamp().Logger()
	base := izerolog.L.New(izerolog.L.WithZerolog(zl), izerolog.L.WithLevel(level))
	return base.Logger()
}
