package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records pipeline metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvent records one processed domain event.
	RecordEvent(ctx context.Context, kind string)

	// RecordPixelSkip records a skipped client pixel call with a reason
	// ("consent" or "no_hook").
	RecordPixelSkip(ctx context.Context, platform, reason string)

	// RecordRelay records a server relay attempt with its duration and outcome.
	RecordRelay(ctx context.Context, platform string, success bool, duration time.Duration)

	// RecordAbandonment records a fired abandonment signal ("cart" or "checkout").
	RecordAbandonment(ctx context.Context, scope string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	events       metric.Int64Counter
	pixelSkips   metric.Int64Counter
	relaySends   metric.Int64Counter
	relayLatency metric.Float64Histogram
	abandonments metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("imagiq-telemetry")

	events, err := meter.Int64Counter("telemetry.events.processed",
		metric.WithDescription("Number of domain events processed"),
	)
	if err != nil {
		return nil, err
	}

	pixelSkips, err := meter.Int64Counter("telemetry.pixel.skips",
		metric.WithDescription("Number of skipped client pixel calls"),
	)
	if err != nil {
		return nil, err
	}

	relaySends, err := meter.Int64Counter("telemetry.relay.sends",
		metric.WithDescription("Number of server relay attempts"),
	)
	if err != nil {
		return nil, err
	}

	relayLatency, err := meter.Float64Histogram("telemetry.relay.latency_ms",
		metric.WithDescription("Server relay latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	abandonments, err := meter.Int64Counter("telemetry.abandonment.fires",
		metric.WithDescription("Number of fired abandonment signals"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		events:       events,
		pixelSkips:   pixelSkips,
		relaySends:   relaySends,
		relayLatency: relayLatency,
		abandonments: abandonments,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvent records one processed domain event.
func (m *otelMetrics) RecordEvent(ctx context.Context, kind string) {
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordPixelSkip records a skipped pixel call.
func (m *otelMetrics) RecordPixelSkip(ctx context.Context, platform, reason string) {
	m.pixelSkips.Add(ctx, 1, metric.WithAttributes(
		attribute.String("platform", platform),
		attribute.String("reason", reason),
	))
}

// RecordRelay records a server relay attempt.
func (m *otelMetrics) RecordRelay(ctx context.Context, platform string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("platform", platform),
		attribute.Bool("success", success),
	}
	m.relaySends.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.relayLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordAbandonment records a fired abandonment signal.
func (m *otelMetrics) RecordAbandonment(ctx context.Context, scope string) {
	m.abandonments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
	))
}
