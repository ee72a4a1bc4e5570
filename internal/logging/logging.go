// Package logging provides a minimal leveled logger for driver
// diagnostics (snapshot I/O and .read progress). Statement results
// never go through this package — those are the executor's direct output.
//
// Built on the standard library's log.Logger: no repository in the
// example pack pulls in a structured-logging dependency, so there is
// nothing to ground a third-party logger on (see DESIGN.md).
package logging

import (
	"io"
	"log"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) prefix() string {
	switch l {
	case LevelWarn:
		return "WARN  "
	case LevelError:
		return "ERROR "
	default:
		return "INFO  "
	}
}

// Logger wraps a stdlib log.Logger with a level-prefixed Log method.
type Logger struct {
	std *log.Logger
}

func New(w io.Writer) *Logger {
	return &Logger{std: log.New(w, "", log.LstdFlags)}
}

func (l *Logger) Log(level Level, format string, args ...interface{}) {
	l.std.Printf(level.prefix()+format, args...)
}

func (l *Logger) Info(format string, args ...interface{})  { l.Log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.Log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.Log(LevelError, format, args...) }
