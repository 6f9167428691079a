// Package logging is a small leveled logger shared by the whole program.
// Output is text by default:
//
//	2026-01-02 15:04:05 [INFO] message
//
// or one JSON object per line after SetFormat("json").
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name, in any case, to a Level.
// "warning" is accepted for LevelWarn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", s)
}

var (
	mu     sync.Mutex
	out    io.Writer = os.Stderr
	level            = LevelInfo
	asJSON bool
	now    = time.Now
)

// SetOutput redirects log output. nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// GetLevel returns the minimum level that is written.
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// IsDebug reports whether debug messages are written.
func IsDebug() bool {
	return GetLevel() <= LevelDebug
}

// SetFormat selects "text" or "json" output. Unknown formats fall back to text.
func SetFormat(format string) {
	mu.Lock()
	defer mu.Unlock()
	asJSON = strings.EqualFold(format, "json")
}

type entry struct {
	TS    string `json:"ts"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

func logf(l Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	ts := now()
	if asJSON {
		b, err := json.Marshal(entry{TS: ts.Format(time.RFC3339), Level: strings.ToLower(l.String()), Msg: msg})
		if err != nil {
			return
		}
		out.Write(append(b, '\n'))
		return
	}
	fmt.Fprintf(out, "%s [%s] %s\n", ts.Format("2006-01-02 15:04:05"), l, msg)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) { logf(LevelDebug, format, args...) }

// Info logs an informational message.
func Info(format string, args ...interface{}) { logf(LevelInfo, format, args...) }

// Warn logs a warning.
func Warn(format string, args ...interface{}) { logf(LevelWarn, format, args...) }

// Error logs an error.
func Error(format string, args ...interface{}) { logf(LevelError, format, args...) }
