package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// Writer redacts each write before passing it on. The CLI log file is
// wrapped in one so secrets never reach disk.
type Writer struct {
	out io.Writer
}

// NewWriter wraps out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write implements io.Writer. It reports len(p) on success even when
// redaction changed the number of bytes written.
func (w *Writer) Write(p []byte) (int, error) {
	if _, err := io.WriteString(w.out, Redact(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the wrapped writer when it is an io.Closer.
func (w *Writer) Close() error {
	if c, ok := w.out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// MessageHook marks events whose message holds a secret. A hook cannot
// rewrite the message, so the console output is flagged with the rule that
// matched; the file output is rewritten by Writer.
func MessageHook() zerolog.Hook {
	return zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, msg string) {
		if name := matchedRule(msg); name != "" {
			e.Str("redaction", name)
		}
	})
}
