// Package platform maps domain events into the shapes each analytics
// destination expects.
//
// Mappers are pure functions: DomainEvent in, Event out, no side
// effects. Unknown event kinds never fail - every mapper falls back to
// a generic custom-event shape so a new storefront interaction can ship
// before its mapping lands.
package platform

// Platform identifiers used in logs, metrics, and relay outcomes.
const (
	GA4    = "ga4"
	Meta   = "meta"
	TikTok = "tiktok"
)

// Event is a platform-shaped payload: an event name in the platform's
// vocabulary plus a parameter map. Events are purely derived and never
// mutated after creation.
type Event struct {
	Name   string
	Params map[string]any
}
