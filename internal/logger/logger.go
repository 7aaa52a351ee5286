// Package logger provides leveled logging for both binaries.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var (
	minLevel = InfoLevel
	std      = log.New(os.Stderr, "", log.LstdFlags)
)

// Init configures the package logger. Level is one of debug/info/warn/error;
// format "text" adds source locations for local debugging.
func Init(level, format string) {
	switch strings.ToLower(level) {
	case "debug":
		minLevel = DebugLevel
	case "warn":
		minLevel = WarnLevel
	case "error":
		minLevel = ErrorLevel
	default:
		minLevel = InfoLevel
	}

	flags := log.LstdFlags
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	std = log.New(os.Stderr, "", flags)
}

func output(lvl Level, tag, format string, args ...any) {
	if lvl < minLevel {
		return
	}
	_ = std.Output(3, fmt.Sprintf(tag+" "+format, args...))
}

func Debug(format string, args ...any) { output(DebugLevel, "[DEBUG]", format, args...) }
func Info(format string, args ...any)  { output(InfoLevel, "[INFO]", format, args...) }
func Warn(format string, args ...any)  { output(WarnLevel, "[WARN]", format, args...) }
func Error(format string, args ...any) { output(ErrorLevel, "[ERROR]", format, args...) }

// Fatal logs at error level and terminates the process.
func Fatal(format string, args ...any) {
	_ = std.Output(3, fmt.Sprintf("[FATAL] "+format, args...))
	os.Exit(1)
}
