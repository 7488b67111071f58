// Package observability provides structured logging, metrics, and
// tracing for the telemetry pipeline.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Logging helpers tolerate a nil logger so call sites stay unconditional.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds pipeline context to a logger.
// Returns a new logger with session_id and event fields.
func EnrichLogger(logger *slog.Logger, sessionID, eventName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("session_id", sessionID),
		slog.String("event", eventName),
	)
}

// LogHookMissing logs a skipped pixel call because the platform's
// global tracking hook is absent.
func LogHookMissing(logger *slog.Logger, platform, eventName string) {
	if logger == nil {
		return
	}
	logger.Warn("pixel hook unavailable, skipping",
		slog.String("platform", platform),
		slog.String("event", eventName),
	)
}

// LogRelayFailure logs a failed server relay. Relay failures are
// logged and dropped - there is no retry.
func LogRelayFailure(logger *slog.Logger, platform, eventName string, err error) {
	if logger == nil {
		return
	}
	logger.Error("server relay failed",
		slog.String("platform", platform),
		slog.String("event", eventName),
		slog.String("error", err.Error()),
	)
}

// LogRelaySent logs a successful server relay at debug level.
func LogRelaySent(logger *slog.Logger, platform, eventName string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("server relay sent",
		slog.String("platform", platform),
		slog.String("event", eventName),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCorruptState logs a stored intent that failed to parse. The
// record is treated as absent and the key removed.
func LogCorruptState(logger *slog.Logger, key string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("stored state corrupt, removing",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// LogStageError logs a pipeline stage failure. Stages are isolated;
// the failure never reaches the caller.
func LogStageError(logger *slog.Logger, stage string, err error) {
	if logger == nil {
		return
	}
	logger.Error("pipeline stage failed",
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
}

// LogAbandonment logs a fired abandonment signal.
func LogAbandonment(logger *slog.Logger, scope string, ageMs float64) {
	if logger == nil {
		return
	}
	logger.Info("abandonment detected",
		slog.String("scope", scope),
		slog.Float64("age_ms", ageMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
