package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// lineWriter implements zerolog.LevelWriter. zerolog still does all
// of the structured-event work (field encoding, level filtering,
// allocation-light JSON building); this writer is the one place that
// decodes the resulting JSON record and re-renders it as the wire
// protocol's literal log line:
//
//	[<pid>: YYYY.MM.DD HH:MM:SS] <L> <message>
type lineWriter struct {
	out io.Writer
	pid int
}

type zerologRecord struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (w *lineWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

func (w *lineWriter) WriteLevel(_ zerolog.Level, p []byte) (int, error) {
	var rec zerologRecord
	if err := json.Unmarshal(bytes.TrimSpace(p), &rec); err != nil {
		// Never silently drop a malformed record; pass it through raw.
		if _, werr := w.out.Write(p); werr != nil {
			return 0, werr
		}
		return len(p), nil
	}

	ts := time.Now()
	if rec.Time != "" {
		if parsed, perr := time.Parse(zerolog.TimeFieldFormat, rec.Time); perr == nil {
			ts = parsed
		}
	}

	line := fmt.Sprintf("[%d: %s] %s %s\n",
		w.pid,
		ts.Format("2006.01.02 15:04:05"),
		levelLetter(rec.Level),
		rec.Message,
	)
	if _, err := io.WriteString(w.out, line); err != nil {
		return 0, err
	}
	return len(p), nil
}

// levelLetter maps a zerolog level name to the single uppercase
// letter the wire protocol's log lines use.
func levelLetter(level string) string {
	if len(level) == 0 {
		return "I"
	}
	switch level[0] {
	case 'd':
		return "D"
	case 'i':
		return "I"
	case 'w':
		return "W"
	case 'e':
		return "E"
	case 'f':
		return "F"
	case 'p':
		return "C"
	default:
		return "I"
	}
}
