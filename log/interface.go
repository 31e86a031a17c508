package log

import (
	"fmt"
	"io"
	"os"
)

// LibraryLogger is the logging surface the fstab, mount and jail packages
// depend on. The CLI picks the concrete implementation; library code never
// writes to the terminal directly.
type LibraryLogger interface {
	// Info logs operator-facing outcomes ("Successfully added mount ...")
	Info(format string, args ...any)

	// Debug logs diagnostics such as the exact mount command line
	Debug(format string, args ...any)

	// Warn logs non-fatal problems
	Warn(format string, args ...any)

	// Error logs failures
	Error(format string, args ...any)
}

// NoOpLogger discards all log messages. Used for --silent.
type NoOpLogger struct{}

func (NoOpLogger) Info(format string, args ...any)  {}
func (NoOpLogger) Debug(format string, args ...any) {}
func (NoOpLogger) Warn(format string, args ...any)  {}
func (NoOpLogger) Error(format string, args ...any) {}

// ConsoleLogger prints INFO to Out and everything else, prefixed with its
// severity, to Err. Debug output is dropped unless Verbose is set.
type ConsoleLogger struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
}

// NewConsoleLogger returns a ConsoleLogger bound to stdout/stderr.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{Out: os.Stdout, Err: os.Stderr, Verbose: verbose}
}

func (c *ConsoleLogger) Info(format string, args ...any) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *ConsoleLogger) Debug(format string, args ...any) {
	if c.Verbose {
		fmt.Fprintf(c.Err, "[DEBUG] "+format+"\n", args...)
	}
}

func (c *ConsoleLogger) Warn(format string, args ...any) {
	fmt.Fprintf(c.Err, "[WARN] "+format+"\n", args...)
}

func (c *ConsoleLogger) Error(format string, args ...any) {
	fmt.Fprintf(c.Err, "[ERROR] "+format+"\n", args...)
}

// Tee fans every message out to all given loggers.
type Tee []LibraryLogger

func (t Tee) Info(format string, args ...any) {
	for _, l := range t {
		l.Info(format, args...)
	}
}

func (t Tee) Debug(format string, args ...any) {
	for _, l := range t {
		l.Debug(format, args...)
	}
}

func (t Tee) Warn(format string, args ...any) {
	for _, l := range t {
		l.Warn(format, args...)
	}
}

func (t Tee) Error(format string, args ...any) {
	for _, l := range t {
		l.Error(format, args...)
	}
}
