package logger

import (
	"io"
	"log"
	"os"
)

// Logger is an alias used by services for dependency injection.
type Logger = log.Logger

// New returns a standard logger with consistent service prefix.
func New(service string) *Logger {
	return NewTo(os.Stdout, service)
}

// NewTo returns a service logger writing to w.
func NewTo(w io.Writer, service string) *Logger {
	return log.New(w, "["+service+"] ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger {
	return log.New(io.Discard, "", 0)
}
