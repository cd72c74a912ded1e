// Package util provides shared utilities for mcp-mesh components.
package util

import (
	"log"
	"os"
)

// Logger defines a minimal logging interface
type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

// --- DefaultLogger ---

// defaultLogger implements Logger using the standard library's log package.
type defaultLogger struct {
	logger *log.Logger
}

func (l *defaultLogger) Infof(format string, v ...any) {
	l.logger.Printf("INFO: "+format, v...)
}

func (l *defaultLogger) Errorf(format string, v ...any) {
	l.logger.Printf("ERROR: "+format, v...)
}

// DefaultLogger returns a stderr-backed logger suitable as a fallback when no
// logger option is supplied.
func DefaultLogger() Logger {
	return &defaultLogger{logger: log.New(os.Stderr, "", log.LstdFlags)}
}

// NewLogger returns a Logger that writes through the given *log.Logger.
// Useful for prefixed per-component logs:
//
//	logger := util.NewLogger(log.New(os.Stderr, "[orchestrator] ", log.LstdFlags))
func NewLogger(l *log.Logger) Logger {
	return &defaultLogger{logger: l}
}

// NopLogger discards all log output. Handy in tests.
type NopLogger struct{}

func (NopLogger) Infof(format string, v ...any)  {}
func (NopLogger) Errorf(format string, v ...any) {}
