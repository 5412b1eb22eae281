// Package console provides the shared leveled logger used across the
// core-schemas services.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger is the package-wide logger instance. Services log through it unless
// they were handed an explicit Debugger.
var Logger = New(os.Stdout)

// ConsoleLogger writes leveled, printf-style messages to a single writer.
type ConsoleLogger struct {
	mu  sync.Mutex
	out io.Writer

	// DebugLevel enables debug output when > 0.
	DebugLevel int

	// Quiet suppresses everything below warning level.
	Quiet bool
}

// New creates a ConsoleLogger writing to the given writer.
func New(out io.Writer) *ConsoleLogger {
	return &ConsoleLogger{out: out}
}

// SetOutput redirects log output to the given writer.
func (l *ConsoleLogger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
}

// Debug logs a debug-level message. No-op unless DebugLevel > 0.
func (l *ConsoleLogger) Debug(format string, v ...interface{}) {
	if l.DebugLevel <= 0 || l.Quiet {
		return
	}
	l.write("DEBUG", format, v...)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(format string, v ...interface{}) {
	if l.Quiet {
		return
	}
	l.write("INFO", format, v...)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(format string, v ...interface{}) {
	l.write("WARN", format, v...)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(format string, v ...interface{}) {
	l.write("ERROR", format, v...)
}

func (l *ConsoleLogger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] %s\n", level, fmt.Sprintf(format, v...))
}
