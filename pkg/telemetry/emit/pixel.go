package emit

import (
	"context"
	"log/slog"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/consent"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/observability"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/platform"
)

// PixelOptions accompany a pixel call: the dedup identity the platform
// uses to collapse the client and server reports of the same event,
// plus hashed identity fields for match-rate improvement.
type PixelOptions struct {
	EventID     string
	MatchFields map[string]string
}

// PixelHook is the platform-provided global tracking function. A nil
// hook means the platform script never loaded.
type PixelHook func(eventName string, data map[string]any, opts PixelOptions)

// PixelEmitter fires one ad platform's client-side pixel. Sends are
// ads-consent-gated; an absent hook is logged and skipped, never an
// error.
type PixelEmitter struct {
	platform string
	hook     PixelHook
	gate     *consent.Gate
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
}

// NewPixelEmitter creates a pixel emitter for the named platform.
// hook may be nil; every Emit then logs and skips.
func NewPixelEmitter(
	platformName string,
	hook PixelHook,
	gate *consent.Gate,
	logger *slog.Logger,
	metrics observability.MetricsRecorder,
) *PixelEmitter {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &PixelEmitter{
		platform: platformName,
		hook:     hook,
		gate:     gate,
		logger:   logger,
		metrics:  metrics,
	}
}

// Platform returns the destination platform name.
func (e *PixelEmitter) Platform() string { return e.platform }

// Emit invokes the platform hook with the mapped event, the dedup
// identity, and the hashed match fields.
func (e *PixelEmitter) Emit(ctx context.Context, pe platform.Event, eventID string, match map[string]string) {
	if !e.gate.CanSendAds() {
		e.gate.LogBlocked(e.platform, pe.Name)
		e.metrics.RecordPixelSkip(ctx, e.platform, "consent")
		return
	}
	if e.hook == nil {
		observability.LogHookMissing(e.logger, e.platform, pe.Name)
		e.metrics.RecordPixelSkip(ctx, e.platform, "no_hook")
		return
	}
	e.hook(pe.Name, pe.Params, PixelOptions{
		EventID:     eventID,
		MatchFields: match,
	})
}
