// Package logger wraps log/slog with the handlers and field helpers this
// service logs through. Development gets human-readable text at debug level;
// everything else emits JSON for the log pipeline.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger embeds slog.Logger so call sites keep the standard key-value API.
type Logger struct {
	*slog.Logger
}

// New builds a Logger for the given APP_ENV value.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// HTTPRequest is the per-request access log line.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// RateLimitExceeded marks an intake caller hitting the per-IP limit.
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}

// StagingOutcome is the audit line for a lead staging attempt, one per call.
func (l *Logger) StagingOutcome(outcome, platformLeadID, sessionID string) {
	l.Info("staging_outcome",
		slog.String("outcome", outcome),
		slog.String("platform_lead_id", platformLeadID),
		slog.String("session_id", sessionID),
	)
}
