package abandon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/config"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/emit"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/event"
	"github.com/Botopia-Tecnology/imagiq-telemetry/pkg/telemetry/store"
)

type trackerFixture struct {
	tracker *Tracker
	queue   *emit.MemoryQueue
	cart    *store.MemoryStore
	now     time.Time
}

func newFixture(t *testing.T) *trackerFixture {
	t.Helper()
	f := &trackerFixture{
		queue: emit.NewMemoryQueue(),
		cart:  store.NewMemoryStore(),
		now:   time.UnixMilli(1700000000000),
	}
	f.tracker = NewTracker(f.cart, store.NewMemoryStore(), f.queue, DefaultPolicy, nil, nil)
	f.tracker.SetClock(func() time.Time { return f.now })
	return f
}

func (f *trackerFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func addToCart() event.DomainEvent {
	return event.DomainEvent{
		Kind:     event.KindAddToCart,
		Items:    []event.Item{{ItemID: "SM-A50", Quantity: 2}},
		Value:    event.Val(1600000),
		Currency: "COP",
	}
}

func beginCheckout() event.DomainEvent {
	return event.DomainEvent{
		Kind:  event.KindBeginCheckout,
		Items: []event.Item{{ItemID: "SM-A50", Quantity: 2}},
		Step:  1,
	}
}

func TestCartResolveTTLBoundaries(t *testing.T) {
	ctx := context.Background()

	t.Run("below minimum age", func(t *testing.T) {
		f := newFixture(t)
		f.tracker.Observe(addToCart())
		f.advance(30 * time.Minute)
		assert.Nil(t, f.tracker.ResolveCart(ctx))
		// Record stays for a later check.
		_, err := f.cart.Get(CartKey)
		assert.NoError(t, err)
	})

	t.Run("within window", func(t *testing.T) {
		f := newFixture(t)
		f.tracker.Observe(addToCart())
		f.advance(2 * time.Hour)

		intent := f.tracker.ResolveCart(ctx)
		require.NotNil(t, intent)
		assert.Equal(t, []IntentItem{{ID: "SM-A50", Quantity: 2}}, intent.Items)
		assert.Equal(t, 1600000.0, intent.Value)
		assert.Equal(t, "COP", intent.Currency)
	})

	t.Run("past TTL", func(t *testing.T) {
		f := newFixture(t)
		f.tracker.Observe(addToCart())
		f.advance(25 * time.Hour)

		assert.Nil(t, f.tracker.ResolveCart(ctx))
		// Expired record is removed, not merely ignored.
		assert.Equal(t, 0, f.cart.Len())
	})
}

func TestCartResolveSingleFire(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.Observe(addToCart())
	f.advance(2 * time.Hour)

	require.NotNil(t, f.tracker.ResolveCart(ctx))
	assert.Nil(t, f.tracker.ResolveCart(ctx), "second resolution must find nothing")
	assert.Len(t, f.queue.Entries(), 1, "exactly one abandonment signal")
}

func TestCartResolvePushesSignal(t *testing.T) {
	f := newFixture(t)
	f.tracker.Observe(addToCart())
	f.advance(2 * time.Hour)
	f.tracker.ResolveCart(context.Background())

	entries := f.queue.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "cart_abandoned", entries[0]["event"])
	assert.Equal(t, 1600000.0, entries[0]["value"])
}

func TestCheckoutResolveWindow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.Observe(beginCheckout())

	f.advance(2 * time.Minute)
	assert.Nil(t, f.tracker.ResolveCheckout(ctx), "too young at 2m")

	f.advance(8 * time.Minute)
	intent := f.tracker.ResolveCheckout(ctx)
	require.NotNil(t, intent)
	assert.Equal(t, 1, intent.Step)

	entries := f.queue.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "checkout_abandoned", entries[0]["event"])
	assert.Equal(t, 1, entries[0]["step"])
}

func TestCheckoutExpiresAfterTTL(t *testing.T) {
	f := newFixture(t)
	f.tracker.Observe(beginCheckout())
	f.advance(31 * time.Minute)
	assert.Nil(t, f.tracker.ResolveCheckout(context.Background()))
}

func TestPurchaseClearsBothIntents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.Observe(addToCart())
	f.tracker.Observe(beginCheckout())

	f.tracker.Observe(event.DomainEvent{Kind: event.KindPurchase})

	f.advance(2 * time.Hour)
	assert.Nil(t, f.tracker.ResolveCart(ctx))
	assert.Nil(t, f.tracker.ResolveCheckout(ctx))
	assert.Empty(t, f.queue.Entries())
}

func TestAddPaymentInfoWritesCheckoutIntent(t *testing.T) {
	f := newFixture(t)
	f.tracker.Observe(event.DomainEvent{
		Kind: event.KindAddPaymentInfo,
		Step: 2,
	})
	f.advance(10 * time.Minute)

	intent := f.tracker.ResolveCheckout(context.Background())
	require.NotNil(t, intent)
	assert.Equal(t, 2, intent.Step)
}

func TestCorruptRecordTreatedAsAbsentAndRemoved(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cart.Set(CartKey, []byte("{not json")))

	assert.Nil(t, f.tracker.ResolveCart(context.Background()))
	assert.Equal(t, 0, f.cart.Len(), "corrupted key must be removed")
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := config.New(map[string]any{
		"cart_abandon_ttl":         "48h",
		"checkout_abandon_min_age": "2m",
	})
	policy := PolicyFromConfig(cfg)

	assert.Equal(t, 48*time.Hour, policy.CartTTL)
	assert.Equal(t, 2*time.Minute, policy.CheckoutMinAge)
	// Unset keys keep defaults.
	assert.Equal(t, DefaultPolicy.CartMinAge, policy.CartMinAge)
	assert.Equal(t, DefaultPolicy.CheckoutTTL, policy.CheckoutTTL)
}
