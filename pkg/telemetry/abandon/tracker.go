// Package abandon implements the abandonment-detection state machine:
// TTL-gated intent records keyed by funnel stage.
//
// A cart intent is written on add_to_cart and a checkout intent on
// begin_checkout / add_payment_info; a purchase clears both. Resolution
// is single-fire and never self-scheduling - a caller invokes the
// Resolve functions periodically (page load delay or heartbeat), never
// an internal timer, so no background work outlives a page navigation.
package abandon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/config"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/emit"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/event"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/observability"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/store"
)

// Store keys for the two intent scopes.
const (
	CartKey     = "cart_intent"
	CheckoutKey = "checkout_intent"
)

// Scope names used in signals, logs, and metrics.
const (
	ScopeCart     = "cart"
	ScopeCheckout = "checkout"
)

// Policy holds the time gates for abandonment detection. TTL bounds a
// record's useful life; MinAge avoids flagging a normal multi-tab
// browsing session as abandonment.
type Policy struct {
	CartTTL        time.Duration
	CartMinAge     time.Duration
	CheckoutTTL    time.Duration
	CheckoutMinAge time.Duration
}

// DefaultPolicy is the stock policy: carts go stale after a day and
// must be at least an hour old; checkouts after 30 minutes with a
// 5-minute floor.
var DefaultPolicy = Policy{
	CartTTL:        24 * time.Hour,
	CartMinAge:     time.Hour,
	CheckoutTTL:    30 * time.Minute,
	CheckoutMinAge: 5 * time.Minute,
}

// PolicyFromConfig reads the policy gates from configuration, falling
// back to DefaultPolicy per key.
func PolicyFromConfig(cfg config.Config) Policy {
	return Policy{
		CartTTL:        cfg.Duration("cart_abandon_ttl", DefaultPolicy.CartTTL),
		CartMinAge:     cfg.Duration("cart_abandon_min_age", DefaultPolicy.CartMinAge),
		CheckoutTTL:    cfg.Duration("checkout_abandon_ttl", DefaultPolicy.CheckoutTTL),
		CheckoutMinAge: cfg.Duration("checkout_abandon_min_age", DefaultPolicy.CheckoutMinAge),
	}
}

// IntentItem is the reduced item record stored with an intent.
type IntentItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CartIntent records an unfinished cart.
type CartIntent struct {
	TimestampMS int64        `json:"timestamp"`
	Items       []IntentItem `json:"items"`
	Value       float64      `json:"value,omitempty"`
	Currency    string       `json:"currency,omitempty"`
}

// CheckoutIntent records an unfinished checkout, including the step
// reached.
type CheckoutIntent struct {
	TimestampMS int64        `json:"timestamp"`
	Items       []IntentItem `json:"items"`
	Value       float64      `json:"value,omitempty"`
	Currency    string       `json:"currency,omitempty"`
	Step        int          `json:"step"`
}

// Tracker maintains the two intent scopes. The cart scope should be
// backed by persistent storage (it survives sessions); the checkout
// scope is session-scoped.
type Tracker struct {
	cart     store.KeyValueStore
	checkout store.KeyValueStore
	queue    emit.Queue
	policy   Policy
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	now      func() time.Time
}

// NewTracker creates a Tracker. queue receives the abandonment
// signals; metrics may be nil.
func NewTracker(
	cart, checkout store.KeyValueStore,
	queue emit.Queue,
	policy Policy,
	logger *slog.Logger,
	metrics observability.MetricsRecorder,
) *Tracker {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Tracker{
		cart:     cart,
		checkout: checkout,
		queue:    queue,
		policy:   policy,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// SetClock overrides the tracker's time source. Intended for tests.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// Observe updates intent state from a processed event. Errors are
// logged, never returned - intent bookkeeping must not break event
// processing.
func (t *Tracker) Observe(ev event.DomainEvent) {
	switch ev.Kind {
	case event.KindAddToCart:
		t.writeCart(ev)
	case event.KindBeginCheckout, event.KindAddPaymentInfo:
		t.writeCheckout(ev)
	case event.KindPurchase:
		t.Clear()
	}
}

// Clear removes both intents unconditionally.
func (t *Tracker) Clear() {
	if err := t.cart.Remove(CartKey); err != nil {
		t.logStoreError("remove", CartKey, err)
	}
	if err := t.checkout.Remove(CheckoutKey); err != nil {
		t.logStoreError("remove", CheckoutKey, err)
	}
}

func (t *Tracker) writeCart(ev event.DomainEvent) {
	intent := CartIntent{
		TimestampMS: t.now().UnixMilli(),
		Items:       intentItems(ev.Items),
		Currency:    ev.Currency,
	}
	if ev.Value != nil {
		intent.Value = *ev.Value
	}
	t.write(t.cart, CartKey, intent)
}

func (t *Tracker) writeCheckout(ev event.DomainEvent) {
	intent := CheckoutIntent{
		TimestampMS: t.now().UnixMilli(),
		Items:       intentItems(ev.Items),
		Currency:    ev.Currency,
		Step:        ev.Step,
	}
	if ev.Value != nil {
		intent.Value = *ev.Value
	}
	t.write(t.checkout, CheckoutKey, intent)
}

func (t *Tracker) write(kv store.KeyValueStore, key string, intent any) {
	data, err := json.Marshal(intent)
	if err != nil {
		t.logStoreError("marshal", key, err)
		return
	}
	if err := kv.Set(key, data); err != nil {
		t.logStoreError("set", key, err)
	}
}

// ResolveCart checks the cart intent against the policy gates. When an
// abandonment fires, a cart_abandoned signal is pushed to the shared
// queue, the record is deleted (single-fire), and the intent returned.
// A nil return means no abandonment.
func (t *Tracker) ResolveCart(ctx context.Context) *CartIntent {
	var intent CartIntent
	age, ok := t.resolve(t.cart, CartKey, t.policy.CartTTL, t.policy.CartMinAge, &intent)
	if !ok {
		return nil
	}

	entry := map[string]any{
		"event": "cart_abandoned",
		"items": intent.Items,
	}
	if intent.Value > 0 {
		entry["value"] = intent.Value
	}
	if intent.Currency != "" {
		entry["currency"] = intent.Currency
	}
	t.queue.Push(entry)

	observability.LogAbandonment(t.logger, ScopeCart, float64(age.Milliseconds()))
	t.metrics.RecordAbandonment(ctx, ScopeCart)
	return &intent
}

// ResolveCheckout is the checkout-scope counterpart of ResolveCart.
func (t *Tracker) ResolveCheckout(ctx context.Context) *CheckoutIntent {
	var intent CheckoutIntent
	age, ok := t.resolve(t.checkout, CheckoutKey, t.policy.CheckoutTTL, t.policy.CheckoutMinAge, &intent)
	if !ok {
		return nil
	}

	entry := map[string]any{
		"event": "checkout_abandoned",
		"items": intent.Items,
		"step":  intent.Step,
	}
	if intent.Value > 0 {
		entry["value"] = intent.Value
	}
	if intent.Currency != "" {
		entry["currency"] = intent.Currency
	}
	t.queue.Push(entry)

	observability.LogAbandonment(t.logger, ScopeCheckout, float64(age.Milliseconds()))
	t.metrics.RecordAbandonment(ctx, ScopeCheckout)
	return &intent
}

// resolve applies the shared gating: absent, corrupt, expired, or too
// young records all yield no abandonment. Corrupt and expired records
// are removed; a firing record is removed so it can never fire twice.
func (t *Tracker) resolve(kv store.KeyValueStore, key string, ttl, minAge time.Duration, intent interface{ timestamp() int64 }) (time.Duration, bool) {
	data, err := kv.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		return 0, false
	}
	if err != nil {
		t.logStoreError("get", key, err)
		return 0, false
	}

	if err := json.Unmarshal(data, intent); err != nil {
		observability.LogCorruptState(t.logger, key, err)
		if rmErr := kv.Remove(key); rmErr != nil {
			t.logStoreError("remove", key, rmErr)
		}
		return 0, false
	}

	age := t.now().Sub(time.UnixMilli(intent.timestamp()))
	if age > ttl {
		if err := kv.Remove(key); err != nil {
			t.logStoreError("remove", key, err)
		}
		return 0, false
	}
	if age < minAge {
		return 0, false
	}

	if err := kv.Remove(key); err != nil {
		t.logStoreError("remove", key, err)
	}
	return age, true
}

func (t *Tracker) logStoreError(op, key string, err error) {
	if t.logger == nil {
		return
	}
	t.logger.Warn("intent store operation failed",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

func (i *CartIntent) timestamp() int64     { return i.TimestampMS }
func (i *CheckoutIntent) timestamp() int64 { return i.TimestampMS }

func intentItems(items []event.Item) []IntentItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]IntentItem, len(items))
	for i, it := range items {
		out[i] = IntentItem{ID: it.ItemID, Quantity: it.Qty()}
	}
	return out
}
