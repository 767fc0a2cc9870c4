package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// NewWithWriter creates a JSON logger writing to w at the given level
func NewWithWriter(service string, w io.Writer, level slog.Level) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

// ParseLevel maps a config level name to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GenerateRequestID returns a fresh request identifier
func GenerateRequestID() string {
	return uuid.NewString()
}

func (l *Logger) Info(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, fields)
}

func (l *Logger) Debug(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, fields)
}

func (l *Logger) Warn(action, message, requestID string, fields map[string]interface{}) {
	l.log(slog.LevelWarn, action, message, requestID, fields)
}

func (l *Logger) Error(action, message, requestID string, err error, fields map[string]interface{}) {
	attrs := l.baseAttrs(action, requestID)
	if err != nil {
		attrs = append(attrs, slog.Group("error",
			slog.String("msg", err.Error()),
			slog.String("stack", string(debug.Stack())),
		))
	}
	attrs = appendFields(attrs, fields)
	l.handler.LogAttrs(context.TODO(), slog.LevelError, message, attrs...)
}

func (l *Logger) log(level slog.Level, action, message, requestID string, fields map[string]interface{}) {
	attrs := appendFields(l.baseAttrs(action, requestID), fields)
	l.handler.LogAttrs(context.TODO(), level, message, attrs...)
}

func (l *Logger) baseAttrs(action, requestID string) []slog.Attr {
	return []slog.Attr{
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
}

func appendFields(attrs []slog.Attr, fields map[string]interface{}) []slog.Attr {
	if len(fields) == 0 {
		return attrs
	}
	details := make([]any, 0, len(fields))
	for k, v := range fields {
		details = append(details, slog.Any(k, v))
	}
	return append(attrs, slog.Group("details", details...))
}
