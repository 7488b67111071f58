package telemetry

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/abandon"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/consent"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/emit"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/observability"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/store"
)

// Option configures a Processor.
type Option func(*processorConfig)

type processorConfig struct {
	consentSource consent.Source
	queue         emit.Queue
	pixelHooks    map[string]emit.PixelHook
	cartStore     store.KeyValueStore
	checkoutStore store.KeyValueStore
	httpClient    *http.Client
	policy        *abandon.Policy
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	clock         func() time.Time
}

// WithConsentSource sets the live consent source. The default denies
// everything, which keeps an unconfigured Processor safe.
func WithConsentSource(src consent.Source) Option {
	return func(cfg *processorConfig) {
		cfg.consentSource = src
	}
}

// WithQueue sets the shared data-layer queue.
func WithQueue(q emit.Queue) Option {
	return func(cfg *processorConfig) {
		cfg.queue = q
	}
}

// WithPixelHook registers a platform's global tracking hook
// (platform.Meta or platform.TikTok). Platforms without a hook are
// logged and skipped at emit time.
func WithPixelHook(platformName string, hook emit.PixelHook) Option {
	return func(cfg *processorConfig) {
		if cfg.pixelHooks == nil {
			cfg.pixelHooks = make(map[string]emit.PixelHook)
		}
		cfg.pixelHooks[platformName] = hook
	}
}

// WithCartStore sets the persistent store backing cart intents.
func WithCartStore(s store.KeyValueStore) Option {
	return func(cfg *processorConfig) {
		cfg.cartStore = s
	}
}

// WithCheckoutStore sets the session-scoped store backing checkout intents.
func WithCheckoutStore(s store.KeyValueStore) Option {
	return func(cfg *processorConfig) {
		cfg.checkoutStore = s
	}
}

// WithHTTPClient sets the client used by both server relays.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *processorConfig) {
		cfg.httpClient = c
	}
}

// WithPolicy overrides the abandonment policy derived from configuration.
func WithPolicy(p abandon.Policy) Option {
	return func(cfg *processorConfig) {
		cfg.policy = &p
	}
}

// WithLogger sets the structured logger. Nil (the default) disables
// logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *processorConfig) {
		cfg.logger = l
	}
}

// WithMetrics sets the metrics recorder. Defaults to no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(cfg *processorConfig) {
		cfg.metrics = m
	}
}

// WithSpanManager sets the span manager. Defaults to no-op.
func WithSpanManager(s observability.SpanManager) Option {
	return func(cfg *processorConfig) {
		cfg.spans = s
	}
}

// WithClock overrides the abandonment tracker's time source. Intended
// for tests.
func WithClock(now func() time.Time) Option {
	return func(cfg *processorConfig) {
		cfg.clock = now
	}
}

func defaultProcessorConfig() *processorConfig {
	return &processorConfig{
		consentSource: consent.Static{},
		queue:         emit.NewMemoryQueue(),
		cartStore:     store.NewMemoryStore(),
		checkoutStore: store.NewMemoryStore(),
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

func (cfg *processorConfig) hook(platformName string) emit.PixelHook {
	if cfg.pixelHooks == nil {
		return nil
	}
	return cfg.pixelHooks[platformName]
}
