package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventIDDeterminism(t *testing.T) {
	value := 199.99
	a := EventID("purchase", 1700000000000, []string{"SKU1", "SKU2"}, "TX1", &value)
	b := EventID("purchase", 1700000000000, []string{"SKU1", "SKU2"}, "TX1", &value)
	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestEventIDSensitivity(t *testing.T) {
	value := 199.99
	base := EventID("purchase", 1700000000000, []string{"SKU1", "SKU2"}, "TX1", &value)

	assert.NotEqual(t, base, EventID("purchase", 1700000000001, []string{"SKU1", "SKU2"}, "TX1", &value))
	assert.NotEqual(t, base, EventID("purchase", 1700000000000, []string{"SKU2", "SKU1"}, "TX1", &value),
		"item order must matter - ids are joined in caller order, unsorted")
	assert.NotEqual(t, base, EventID("purchase", 1700000000000, []string{"SKU1", "SKU2"}, "TX2", &value))
	assert.NotEqual(t, base, EventID("purchase", 1700000000000, []string{"SKU1", "SKU2"}, "TX1", nil))
}

func TestEventIDIsURLSafe(t *testing.T) {
	id := EventID("add_to_cart", 1700000000000, []string{"SKU/1+2"}, "", nil)
	assert.NotContains(t, id, "+")
	assert.NotContains(t, id, "/")
	assert.NotContains(t, id, "=")
}

func TestEventIDAbsentOptionalFields(t *testing.T) {
	a := EventID("view_item", 1700000000000, []string{"SKU1"}, "", nil)
	b := EventID("view_item", 1700000000000, []string{"SKU1"}, "", nil)
	assert.Equal(t, a, b)
}

func TestWeakEventIDDeterminism(t *testing.T) {
	value := 10.0
	a := WeakEventID("search", 1700000000000, nil, "", &value)
	b := WeakEventID("search", 1700000000000, nil, "", &value)
	assert.Equal(t, a, b)
	assert.Len(t, a, 8)
}
