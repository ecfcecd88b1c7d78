package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger defines the interface for logging throughout the application.
// Different implementations can be used for different contexts (console, silent).
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ConsoleLogger writes timestamped, human-readable logs.
// Info and Debug go to stdout, Error to stderr. Debug lines are dropped unless enabled.
type ConsoleLogger struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	debug bool
	now   func() time.Time
}

func NewConsoleLogger(debug bool) *ConsoleLogger {
	return &ConsoleLogger{
		out:   os.Stdout,
		err:   os.Stderr,
		debug: debug,
		now:   time.Now,
	}
}

// NewWriterLogger logs everything to w. Used by tests and when stdout is reserved.
func NewWriterLogger(w io.Writer, debug bool) *ConsoleLogger {
	return &ConsoleLogger{
		out:   w,
		err:   w,
		debug: debug,
		now:   time.Now,
	}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	c.write(c.out, "INFO", msg, args...)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	c.write(c.err, "ERROR", msg, args...)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	if !c.debug {
		return
	}
	c.write(c.out, "DEBUG", msg, args...)
}

func (c *ConsoleLogger) write(w io.Writer, level, msg string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(w, "%s [%s] %s\n", c.now().Format(time.RFC3339), level, fmt.Sprintf(msg, args...))
}

// SilentLogger discards all log messages.
// Used when running the preview TUI or the MCP server, where stdout is not ours.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
