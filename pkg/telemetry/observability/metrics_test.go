package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a test meter provider backed by a manual reader.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordEvent(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordEvent(ctx, "purchase")

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "telemetry.events.processed")
	require.NotNil(t, metric)

	sum, ok := metric.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	require.NotEmpty(t, sum.DataPoints)

	found := false
	for _, dp := range sum.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if attr.Key == "kind" && attr.Value.AsString() == "purchase" {
				found = true
				assert.GreaterOrEqual(t, dp.Value, int64(1))
			}
		}
	}
	assert.True(t, found, "Expected to find datapoint for kind=purchase")
}

func TestRecordPixelSkip(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordPixelSkip(ctx, "meta", "consent")
	m.RecordPixelSkip(ctx, "tiktok", "no_hook")

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "telemetry.pixel.skips")
	require.NotNil(t, metric)

	sum, ok := metric.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	assert.Len(t, sum.DataPoints, 2, "one datapoint per platform/reason pair")
}

func TestRecordRelay(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("records send count", func(t *testing.T) {
		m.RecordRelay(ctx, "meta", true, 50*time.Millisecond)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "telemetry.relay.sends")
		require.NotNil(t, metric)

		sum, ok := metric.Data.(metricdata.Sum[int64])
		require.True(t, ok, "Expected Sum type")
		require.NotEmpty(t, sum.DataPoints)
	})

	t.Run("records latency", func(t *testing.T) {
		m.RecordRelay(ctx, "tiktok", false, 120*time.Millisecond)

		rm := collectMetrics(t, reader)
		metric := findMetric(rm, "telemetry.relay.latency_ms")
		require.NotNil(t, metric)

		hist, ok := metric.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)
	})
}

func TestRecordAbandonment(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	m.RecordAbandonment(context.Background(), "cart")

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "telemetry.abandonment.fires")
	require.NotNil(t, metric)

	sum, ok := metric.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	found := false
	for _, dp := range sum.DataPoints {
		for _, attr := range dp.Attributes.ToSlice() {
			if attr.Key == "scope" && attr.Value.AsString() == "cart" {
				found = true
				assert.GreaterOrEqual(t, dp.Value, int64(1))
			}
		}
	}
	assert.True(t, found, "Expected to find datapoint for scope=cart")
}

func TestOtelMetrics_AllMethods(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	require.NotNil(t, m)

	ctx := context.Background()

	m.RecordEvent(ctx, "view_item")
	m.RecordPixelSkip(ctx, "meta", "consent")
	m.RecordRelay(ctx, "meta", true, 25*time.Millisecond)
	m.RecordRelay(ctx, "tiktok", false, 10*time.Millisecond)
	m.RecordAbandonment(ctx, "checkout")

	rm := collectMetrics(t, reader)

	assert.NotNil(t, findMetric(rm, "telemetry.events.processed"))
	assert.NotNil(t, findMetric(rm, "telemetry.pixel.skips"))
	assert.NotNil(t, findMetric(rm, "telemetry.relay.sends"))
	assert.NotNil(t, findMetric(rm, "telemetry.relay.latency_ms"))
	assert.NotNil(t, findMetric(rm, "telemetry.abandonment.fires"))
}

func TestNewOtelMetrics_Creation(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.NotNil(t, m.events)
	assert.NotNil(t, m.pixelSkips)
	assert.NotNil(t, m.relaySends)
	assert.NotNil(t, m.relayLatency)
	assert.NotNil(t, m.abandonments)
}
