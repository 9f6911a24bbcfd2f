package util

import (
	"fmt"
	"io"
	"os"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLogLevel           = LevelInfo
	useColors                 = true
	logOutput       io.Writer = os.Stderr
)

var levelTags = map[LogLevel]struct {
	tag   string
	color string
}{
	LevelDebug: {"[DEBUG]", "\033[90m"},
	LevelInfo:  {"[INFO] ", "\033[36m"},
	LevelWarn:  {"[WARN] ", "\033[33m"},
	LevelError: {"[ERROR]", "\033[31m"},
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		currentLogLevel = LevelDebug
	}
}

// SetQuiet enables quiet mode (errors only)
func SetQuiet(quiet bool) {
	if quiet {
		currentLogLevel = LevelError
	}
}

// IsQuiet reports whether quiet mode is active
func IsQuiet() bool {
	return currentLogLevel >= LevelError
}

// SetColors enables or disables colored output
func SetColors(enabled bool) {
	useColors = enabled
}

// SetLogOutput redirects log output, mainly for tests
func SetLogOutput(w io.Writer) {
	logOutput = w
}

func logAt(level LogLevel, format string, args ...interface{}) {
	if currentLogLevel > level {
		return
	}
	entry := levelTags[level]
	prefix := fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), entry.tag)
	if useColors {
		prefix = entry.color + prefix + "\033[0m"
	}
	fmt.Fprintf(logOutput, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// DebugLog logs debug messages
func DebugLog(format string, args ...interface{}) {
	logAt(LevelDebug, format, args...)
}

// InfoLog logs informational messages
func InfoLog(format string, args ...interface{}) {
	logAt(LevelInfo, format, args...)
}

// WarnLog logs warning messages
func WarnLog(format string, args ...interface{}) {
	logAt(LevelWarn, format, args...)
}

// ErrorLog logs error messages
func ErrorLog(format string, args ...interface{}) {
	logAt(LevelError, format, args...)
}

// SuccessLog logs success messages (suppressed in quiet mode)
func SuccessLog(format string, args ...interface{}) {
	if currentLogLevel > LevelInfo {
		return
	}
	prefix := fmt.Sprintf("%s [OK]   ", time.Now().Format("15:04:05"))
	if useColors {
		prefix = "\033[32m" + prefix + "\033[0m"
	}
	fmt.Fprintf(logOutput, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
