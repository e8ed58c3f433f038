package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_FreeShippingAboveThreshold(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	got := p.Quote([]Line{
		{Price: 500, Qty: 2},
		{Price: 1000, Qty: 1},
	})

	assert.Equal(t, float64(2000), got.Subtotal)
	assert.Equal(t, float64(0), got.Shipping)
	assert.Equal(t, float64(360), got.Tax)
	assert.Equal(t, float64(2360), got.Total)
}

func TestQuote_FlatFeeBelowThreshold(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	got := p.Quote([]Line{{Price: 25.5, Qty: 2}})

	assert.Equal(t, 51.0, got.Subtotal)
	assert.Equal(t, 10.0, got.Shipping)
	assert.Equal(t, 9.18, got.Tax)
	assert.Equal(t, 70.18, got.Total)
}

func TestQuote_EmptyCart(t *testing.T) {
	t.Parallel()

	got := DefaultPolicy().Quote(nil)
	require.Equal(t, float64(0), got.Subtotal)
	// an empty cart still quotes the flat fee; order creation rejects it anyway
	assert.Equal(t, 10.0, got.Shipping)
	assert.Equal(t, 10.0, got.Total)
}

func TestQuote_RoundsToCents(t *testing.T) {
	t.Parallel()

	p := Policy{TaxRate: 0.18, ShippingFee: 10, FreeShippingMin: 100}
	got := p.Quote([]Line{{Price: 33.33, Qty: 3}})

	assert.Equal(t, 99.99, got.Subtotal)
	assert.Equal(t, 10.0, got.Shipping)
	assert.Equal(t, 18.0, got.Tax)
	assert.Equal(t, 127.99, got.Total)
}

func TestQuote_ExactThresholdIsFree(t *testing.T) {
	t.Parallel()

	got := DefaultPolicy().Quote([]Line{{Price: 100, Qty: 1}})
	assert.Equal(t, float64(0), got.Shipping)
}
