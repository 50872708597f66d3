// Package security provides structured security logging.
// Every entry is a single JSON line so log aggregators can parse the
// stream without custom rules.
package security

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"
)

// LogLevel is the severity of a log entry.
type LogLevel string

// Log levels, ordered by severity.
const (
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

// SecurityEventType identifies a security-relevant action.
type SecurityEventType string

// Security event types recorded by the application.
const (
	EventLoginSuccess     SecurityEventType = "login_success"
	EventLoginFailure     SecurityEventType = "login_failure"
	EventRegistration     SecurityEventType = "registration"
	EventEmailVerified    SecurityEventType = "email_verified"
	EventMailDispatchFail SecurityEventType = "mail_dispatch_failed"
	EventRateLimited      SecurityEventType = "rate_limited"
	EventReportDuplicate  SecurityEventType = "report_duplicate"
	EventReportSeedFailed SecurityEventType = "report_seed_failed"
)

// LogEntry is the JSON shape of every log line.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Event     SecurityEventType      `json:"event,omitempty"`
	UserID    *int                   `json:"user_id,omitempty"`
	Email     string                 `json:"email,omitempty"`
	IP        string                 `json:"ip,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`

	// HTTP request fields, set only by HTTPRequest.
	Method    string `json:"method,omitempty"`
	Path      string `json:"path,omitempty"`
	Status    int    `json:"status,omitempty"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Logger writes structured JSON log entries.
// The zero Logger is not usable; create one with NewLogger.
type Logger struct {
	output *log.Logger
}

// NewLogger creates a logger writing JSON lines to stdout.
func NewLogger() *Logger {
	return &Logger{
		output: log.New(os.Stdout, "", 0),
	}
}

// SetOutput redirects log output, used by tests to capture entries.
func (l *Logger) SetOutput(out *log.Logger) {
	l.output = out
}

func (l *Logger) write(entry LogEntry) {
	entry.Timestamp = time.Now().UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		// Fall back to plain text rather than dropping the entry.
		l.output.Printf(`{"level":"ERROR","message":"failed to marshal log entry: %v"}`, err)
		return
	}

	l.output.Println(string(data))
}

// Info logs an informational message.
func (l *Logger) Info(message string) {
	l.write(LogEntry{Level: LogLevelInfo, Message: message})
}

// Warn logs a warning message.
func (l *Logger) Warn(message string) {
	l.write(LogEntry{Level: LogLevelWarning, Message: message})
}

// Error logs an error with its underlying cause, if any.
func (l *Logger) Error(message string, err error) {
	entry := LogEntry{Level: LogLevelError, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

// Critical logs a critical failure with its underlying cause, if any.
func (l *Logger) Critical(message string, err error) {
	entry := LogEntry{Level: LogLevelCritical, Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	l.write(entry)
}

// HTTPRequest logs one handled request. Server errors are logged at ERROR,
// client errors at WARNING, everything else at INFO.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMS int64, ip, userAgent, requestID string) {
	level := LogLevelInfo
	switch {
	case status >= 500:
		level = LogLevelError
	case status >= 400:
		level = LogLevelWarning
	}

	l.write(LogEntry{
		Level:     level,
		Message:   fmt.Sprintf("%s %s %d", method, path, status),
		Method:    method,
		Path:      path,
		Status:    status,
		LatencyMS: latencyMS,
		IP:        ip,
		UserAgent: userAgent,
		RequestID: requestID,
	})
}

// SecurityEvent logs a security-relevant action with actor context.
// userID may be nil when the actor is unauthenticated (failed logins).
func (l *Logger) SecurityEvent(
	eventType SecurityEventType,
	userID *int,
	email string,
	ip string,
	userAgent string,
	details map[string]interface{},
) {
	level := LogLevelInfo
	switch eventType {
	case EventLoginFailure, EventRateLimited, EventReportDuplicate:
		level = LogLevelWarning
	case EventMailDispatchFail, EventReportSeedFailed:
		level = LogLevelError
	}

	l.write(LogEntry{
		Level:     level,
		Message:   string(eventType),
		Event:     eventType,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Details:   details,
	})
}
