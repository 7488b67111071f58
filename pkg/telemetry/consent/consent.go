// Package consent gates outbound data on the user's consent choices.
//
// Consent lives in an external store owned by the consent-banner
// collaborator. The gate re-reads it on every call - nothing is cached
// here, so a consent change takes effect on the very next event.
package consent

import "log/slog"

// Source exposes the two independent consent booleans. Implementations
// must return the live value on every call.
type Source interface {
	AnalyticsGranted() bool
	AdsGranted() bool
}

// Static is a fixed-value Source, used as a default and in tests.
type Static struct {
	Analytics bool
	Ads       bool
}

func (s Static) AnalyticsGranted() bool { return s.Analytics }
func (s Static) AdsGranted() bool       { return s.Ads }

// SourceFunc adapts two functions to the Source interface.
type SourceFunc struct {
	AnalyticsFn func() bool
	AdsFn       func() bool
}

func (s SourceFunc) AnalyticsGranted() bool {
	return s.AnalyticsFn != nil && s.AnalyticsFn()
}

func (s SourceFunc) AdsGranted() bool {
	return s.AdsFn != nil && s.AdsFn()
}

// Gate wraps a Source with blocked-send diagnostics. A blocked send is
// a deliberate no-op, never an error.
type Gate struct {
	src    Source
	logger *slog.Logger
}

// NewGate creates a consent gate. A nil source denies everything.
func NewGate(src Source, logger *slog.Logger) *Gate {
	if src == nil {
		src = Static{}
	}
	return &Gate{src: src, logger: logger}
}

// CanSendAnalytics reports whether analytics-suite sends are permitted.
func (g *Gate) CanSendAnalytics() bool {
	return g.src.AnalyticsGranted()
}

// CanSendAds reports whether ad-platform sends may carry identity data.
func (g *Gate) CanSendAds() bool {
	return g.src.AdsGranted()
}

// LogBlocked records a consent-blocked send at debug level.
func (g *Gate) LogBlocked(platform, eventName string) {
	if g.logger == nil {
		return
	}
	g.logger.Debug("send blocked by consent",
		slog.String("platform", platform),
		slog.String("event", eventName),
	)
}
