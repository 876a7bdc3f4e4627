package models

import "fmt"

// LogLevel is the severity of a structured log event, per spec.md §3.
type LogLevel string

const (
	LogLevelDebug    LogLevel = "DEBUG"
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

// ValidLogLevels enumerates the five accepted levels.
var ValidLogLevels = map[LogLevel]bool{
	LogLevelDebug:    true,
	LogLevelInfo:     true,
	LogLevelWarning:  true,
	LogLevelError:    true,
	LogLevelCritical: true,
}

// LogEvent is a structured log entry pushed by a client.
type LogEvent struct {
	Message   string            `json:"message"`
	Level     LogLevel          `json:"level"`
	Tags      map[string]string `json:"tags,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
}

// Validate checks the level enum invariant from spec.md §3.
func (l LogEvent) Validate() error {
	if l.Message == "" {
		return fmt.Errorf("%w: message is required", ErrSchemaInvalid)
	}
	if !ValidLogLevels[l.Level] {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, l.Level)
	}
	return nil
}

// LogFilter narrows a grouped log listing.
type LogFilter struct {
	Service string
	Level   LogLevel
	Start   string
	End     string
}
