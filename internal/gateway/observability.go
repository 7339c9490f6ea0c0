package gateway

import (
	"fmt"
	"io"
)

// Logger receives warnings for degraded operations (stale cache reads,
// ignored refresh failures). It never receives hard errors; those flow back
// to the caller.
type Logger interface {
	Warnf(format string, args ...any)
}

// NoopLogger discards all warnings.
type NoopLogger struct{}

func (NoopLogger) Warnf(string, ...any) {}

// writerLogger writes warnings as single lines to an io.Writer.
type writerLogger struct {
	w io.Writer
}

// NewWriterLogger returns a Logger that writes "warn: ..." lines to w.
func NewWriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

func (l *writerLogger) Warnf(format string, args ...any) {
	fmt.Fprintf(l.w, "warn: "+format+"\n", args...)
}
