/*
Package telemetry processes storefront interaction events and dispatches
them to multiple analytics and advertising destinations.

# Overview

telemetry is the event processing core of the storefront: it turns
discrete user-interaction events (view item, add to cart, purchase,
search, checkout progress) into consistently-shaped, deduplicated,
privacy-governed signals sent to three independent destinations - the
analytics suite (GA4 via a shared data-layer queue), Meta (pixel +
Conversions API relay), and TikTok (pixel + Events API relay) - with an
abandonment-detection state machine layered on top.

Key properties:
  - Deterministic dedup identities so client and server reports of the
    same event collapse into one
  - Consent gating per destination and per direction: client sends are
    skipped without consent; server relays always fire but reduce the
    payload to an anonymous form
  - Full stage isolation: a failure in one destination never reaches
    the storefront or the other destinations
  - OpenTelemetry integration for observability

# Basic Usage

	cfg, err := config.FromFile("telemetry.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	p := telemetry.New(cfg,
	    telemetry.WithConsentSource(banner),
	    telemetry.WithQueue(dataLayer),
	    telemetry.WithPixelHook(platform.Meta, fbq),
	    telemetry.WithPixelHook(platform.TikTok, ttq),
	)

	p.Process(ctx, event.DomainEvent{
	    Kind:        event.KindAddToCart,
	    TimestampMS: time.Now().UnixMilli(),
	    Items:       []event.Item{{ItemID: "SM-A50", ItemName: "Galaxy A50", Price: 800000, Quantity: 2}},
	    Value:       event.Val(1600000),
	    Currency:    "COP",
	}, userIdentity, event.Context{PageURL: pageURL, IP: clientIP})

# Abandonment Resolution

The pipeline records cart and checkout intents but never schedules its
own timers. Callers invoke the resolvers periodically:

	if intent := p.ResolveCartAbandon(ctx); intent != nil {
	    // re-engagement signal already pushed to the queue
	}

# Concurrency

Process is safe to call from one goroutine per Processor. The two
server relays for a single event fire in parallel with a settle-all
wait: both are always attempted and both outcomes observed. Intent
stores may see concurrent writers from multiple sessions; last write
wins, an accepted race for non-critical telemetry.
*/
package telemetry
