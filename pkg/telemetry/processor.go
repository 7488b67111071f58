package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/abandon"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/config"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/consent"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/dedup"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/emit"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/event"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/observability"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/platform"
)

// Configuration keys read by New.
const (
	ConfigMetaCAPIURL     = "meta_capi_url"
	ConfigTikTokEventsURL = "tiktok_events_url"
)

// Processor is the pipeline controller. One Processor serves one
// session; construct a new one when the session changes.
//
// Process never returns an error and never panics outward: every stage
// is isolated, and a failure in one destination cannot prevent the
// others from running. Analytics must never break the storefront it
// instruments.
type Processor struct {
	session *Session
	gate    *consent.Gate

	queueEmitter *emit.QueueEmitter
	pixels       []*emit.PixelEmitter
	metaRelay    *emit.Relay
	tiktokRelay  *emit.Relay
	tracker      *abandon.Tracker

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates a Processor from configuration and options. cfg supplies
// the relay endpoints and abandonment policy; options supply the
// collaborators (consent source, queue, pixel hooks, stores).
func New(cfg config.Config, opts ...Option) *Processor {
	pc := defaultProcessorConfig()
	for _, opt := range opts {
		opt(pc)
	}

	gate := consent.NewGate(pc.consentSource, pc.logger)

	policy := abandon.PolicyFromConfig(cfg)
	if pc.policy != nil {
		policy = *pc.policy
	}

	tracker := abandon.NewTracker(
		pc.cartStore, pc.checkoutStore,
		pc.queue, policy, pc.logger, pc.metrics,
	)
	if pc.clock != nil {
		tracker.SetClock(pc.clock)
	}

	return &Processor{
		session:      NewSession(),
		gate:         gate,
		queueEmitter: emit.NewQueueEmitter(pc.queue, gate, pc.logger),
		pixels: []*emit.PixelEmitter{
			emit.NewPixelEmitter(platform.Meta, pc.hook(platform.Meta), gate, pc.logger, pc.metrics),
			emit.NewPixelEmitter(platform.TikTok, pc.hook(platform.TikTok), gate, pc.logger, pc.metrics),
		},
		metaRelay: emit.NewRelay(platform.Meta,
			cfg.String(ConfigMetaCAPIURL, ""), pc.httpClient, pc.logger, pc.metrics),
		tiktokRelay: emit.NewRelay(platform.TikTok,
			cfg.String(ConfigTikTokEventsURL, ""), pc.httpClient, pc.logger, pc.metrics),
		tracker: tracker,
		logger:  pc.logger,
		metrics: pc.metrics,
		spans:   pc.spans,
	}
}

// Session returns the processor's session state.
func (p *Processor) Session() *Session {
	return p.session
}

// Process runs one domain event through the full pipeline:
//
//  1. Derive the dedup identity.
//  2. Map the event for all three destinations.
//  3. Build the consent-resolved identity views once, shared by all
//     emitters.
//  4. Push the analytics-suite event (analytics-consent gated).
//  5. Fire both ad-platform pixels (ads-consent gated, independent).
//  6. Issue both server relays in parallel - always on, with the
//     payload reduced to its anonymous form when ads consent is absent.
//  7. Update the abandonment tracker.
//
// identity may be nil. It is read only for the duration of this call
// and never persisted.
func (p *Processor) Process(ctx context.Context, ev event.DomainEvent, identity *event.UserIdentity, reqCtx event.Context) {
	eventID := dedup.EventID(string(ev.Kind), ev.TimestampMS, ev.ItemIDs(), ev.TransactionID, ev.Value)

	ctx, span := p.spans.StartProcessSpan(ctx, string(ev.Kind), eventID)
	defer p.spans.EndSpanWithError(span, nil)

	p.metrics.RecordEvent(ctx, string(ev.Kind))

	ga4Event := platform.MapGA4(ev)
	metaEvent := platform.MapMeta(ev)
	tiktokEvent := platform.MapTikTok(ev)

	fullView := emit.FullView(identity, reqCtx)
	anonView := emit.AnonymousView(reqCtx)

	p.runStage(ctx, "identify", func() {
		if identity == nil || !p.session.MarkIdentified() {
			return
		}
		p.queueEmitter.Emit(platform.Event{
			Name:   "identify",
			Params: map[string]any{"session_id": p.session.ID()},
		})
	})

	p.runStage(ctx, "analytics", func() {
		p.queueEmitter.Emit(ga4Event)
	})

	p.runStage(ctx, "pixels", func() {
		for _, pixel := range p.pixels {
			pe := metaEvent
			if pixel.Platform() == platform.TikTok {
				pe = tiktokEvent
			}
			pixel.Emit(ctx, pe, eventID, fullView.Match)
		}
	})

	p.runStage(ctx, "relays", func() {
		mode := emit.ModeAnonymous
		view := anonView
		if p.gate.CanSendAds() {
			mode = emit.ModeFull
			view = fullView
		}
		emit.SendParallel(ctx,
			func(ctx context.Context) emit.Outcome {
				payload := emit.BuildMetaPayload(ev, metaEvent, eventID, view, mode)
				return p.metaRelay.Send(ctx, metaEvent.Name, payload)
			},
			func(ctx context.Context) emit.Outcome {
				payload := emit.BuildTikTokPayload(ev, tiktokEvent, eventID, view, mode)
				return p.tiktokRelay.Send(ctx, tiktokEvent.Name, payload)
			},
		)
	})

	p.runStage(ctx, "abandonment", func() {
		p.tracker.Observe(ev)
	})
}

// ResolveCartAbandon checks the cart intent and fires the abandonment
// signal when the policy gates pass. Callers invoke this periodically;
// the pipeline defines no timer of its own. Returns nil when no
// abandonment fired.
func (p *Processor) ResolveCartAbandon(ctx context.Context) *abandon.CartIntent {
	return p.tracker.ResolveCart(ctx)
}

// ResolveCheckoutAbandon is the checkout-scope counterpart of
// ResolveCartAbandon.
func (p *Processor) ResolveCheckoutAbandon(ctx context.Context) *abandon.CheckoutIntent {
	return p.tracker.ResolveCheckout(ctx)
}

// runStage executes one pipeline stage in isolation: panics are
// recovered and logged, never propagated to the storefront.
func (p *Processor) runStage(ctx context.Context, name string, fn func()) {
	_, span := p.spans.StartStageSpan(ctx, name)

	var stageErr error
	defer func() {
		if r := recover(); r != nil {
			stageErr = fmt.Errorf("panic: %v", r)
		}
		if stageErr != nil {
			observability.LogStageError(p.logger, name, stageErr)
		}
		p.spans.EndSpanWithError(span, stageErr)
	}()

	fn()
}
