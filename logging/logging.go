package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

var (
	mu       sync.Mutex
	output   io.Writer = os.Stderr
	minLevel           = WarnLevel
)

// SetOutput redirects log messages to a writer
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetMinLevel suppresses log messages below a level
func SetMinLevel(level int) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
}

// Logf writes a formatted log message at a level
func Logf(level int, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}
	fmt.Fprintf(output, "%s %s\n", LogLevelToString(level), fmt.Sprintf(format, args...))
}

// Warnf writes a formatted warning. Warnings are non-fatal and are used only
// for deprecated call patterns and construction-time shadowing of explicitly
// supplied labels.
func Warnf(format string, args ...interface{}) {
	Logf(WarnLevel, format, args...)
}
