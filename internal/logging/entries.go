// pattern: Functional Core

package logging

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Levels as they appear in LogEntry.Level.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogEntry is one decoded log record, as delivered to the status bar.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Scope     string // logger scope, e.g. "web" or "layout"
	Message   string
	Fields    map[string]any
}

// Severe reports whether the entry is a warning or an error.
func (e LogEntry) Severe() bool {
	return e.Level == LevelWarn || e.Level == LevelError
}

// Summary is the one-line form shown in the status bar.
func (e LogEntry) Summary() string {
	if e.Scope == "" {
		return e.Message
	}
	return "[" + e.Scope + "] " + e.Message
}

// String renders the entry with its fields in key order.
func (e LogEntry) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %-5s %s", e.Timestamp.Format("15:04:05"), e.Level, e.Summary())
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&sb, " %s=%v", k, e.Fields[k])
	}
	return sb.String()
}

// normalizeLevel maps zap's lowercase level names to LogEntry levels.
// Levels above error (dpanic, panic, fatal) count as errors.
func normalizeLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	default:
		return LevelError
	}
}
