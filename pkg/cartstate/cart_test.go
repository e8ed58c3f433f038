package cartstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vastra-wear/vastra/internal/pricing"
	"github.com/vastra-wear/vastra/pkg/storage"
)

func newState(t *testing.T) (*State, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	s, err := Load(store)
	require.NoError(t, err)
	return s, store
}

func TestAddToCart_ReplacesExistingEntry(t *testing.T) {
	t.Parallel()

	s, _ := newState(t)
	require.NoError(t, s.AddToCart(Item{ProductID: 1, Name: "Linen Shirt", Price: 49, Qty: 1, Size: "M"}))
	require.NoError(t, s.AddToCart(Item{ProductID: 2, Name: "Wool Coat", Price: 199, Qty: 1}))

	// re-adding product 1 replaces the line, it does not duplicate it
	require.NoError(t, s.AddToCart(Item{ProductID: 1, Name: "Linen Shirt", Price: 49, Qty: 3, Size: "L"}))

	require.Len(t, s.CartItems, 2)
	assert.Equal(t, uint(3), s.CartItems[0].Qty)
	assert.Equal(t, "L", s.CartItems[0].Size)
}

func TestAddToCart_AcceptsAnyQuantity(t *testing.T) {
	t.Parallel()

	// the mutation does not clamp; bounding to [1, stock] is the caller's job
	s, _ := newState(t)
	require.NoError(t, s.AddToCart(Item{ProductID: 1, Price: 49, Qty: 999, StockSnapshot: 5}))
	assert.Equal(t, uint(999), s.CartItems[0].Qty)
}

func TestClampQty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint(1), ClampQty(0, 5))
	assert.Equal(t, uint(3), ClampQty(3, 5))
	assert.Equal(t, uint(5), ClampQty(9, 5))
}

func TestRemoveFromCart_MissingIsNoOp(t *testing.T) {
	t.Parallel()

	s, _ := newState(t)
	require.NoError(t, s.AddToCart(Item{ProductID: 1, Price: 49, Qty: 1}))

	require.NoError(t, s.RemoveFromCart(42))
	require.Len(t, s.CartItems, 1)

	require.NoError(t, s.RemoveFromCart(1))
	assert.Empty(t, s.CartItems)
}

func TestState_PersistsAcrossLoads(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	s, err := Load(store)
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(Item{ProductID: 1, Name: "Linen Shirt", Price: 49, Qty: 2}))
	require.NoError(t, s.SaveShippingAddress(Address{
		Street: "12 Baker St", City: "Chennai", PostalCode: "600001", Country: "India",
	}))
	require.NoError(t, s.SavePaymentMethod("card"))
	require.NoError(t, s.AddToWishlist(WishItem{ProductID: 7, Name: "Silk Scarf"}))

	reloaded, err := Load(store)
	require.NoError(t, err)
	require.Len(t, reloaded.CartItems, 1)
	assert.Equal(t, uint(2), reloaded.CartItems[0].Qty)
	assert.Equal(t, "Chennai", reloaded.ShippingAddress.City)
	assert.Equal(t, "card", reloaded.PaymentMethod)
	require.Len(t, reloaded.WishlistItems, 1)
}

func TestLoad_EmptyStoreDefaults(t *testing.T) {
	t.Parallel()

	s, _ := newState(t)
	assert.Empty(t, s.CartItems)
	assert.Empty(t, s.WishlistItems)
	assert.Equal(t, "PayPal", s.PaymentMethod)
}

func TestClearCart_DropsPersistedKey(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	s, err := Load(store)
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(Item{ProductID: 1, Price: 49, Qty: 1}))
	require.NoError(t, s.ClearCart())
	assert.Empty(t, s.CartItems)

	reloaded, err := Load(store)
	require.NoError(t, err)
	assert.Empty(t, reloaded.CartItems)
}

func TestWishlist_DuplicateAddIsNoOp(t *testing.T) {
	t.Parallel()

	s, _ := newState(t)
	require.NoError(t, s.AddToWishlist(WishItem{ProductID: 7, Name: "Silk Scarf"}))
	require.NoError(t, s.AddToWishlist(WishItem{ProductID: 7, Name: "Silk Scarf"}))

	require.Len(t, s.WishlistItems, 1)
	assert.True(t, s.InWishlist(7))
}

func TestWishlist_RemoveMissingIsNoOp(t *testing.T) {
	t.Parallel()

	s, _ := newState(t)
	require.NoError(t, s.AddToWishlist(WishItem{ProductID: 7}))

	require.NoError(t, s.RemoveFromWishlist(99))
	require.Len(t, s.WishlistItems, 1)

	require.NoError(t, s.RemoveFromWishlist(7))
	assert.Empty(t, s.WishlistItems)
	assert.False(t, s.InWishlist(7))
}

func TestTotals(t *testing.T) {
	t.Parallel()

	s, _ := newState(t)
	require.NoError(t, s.AddToCart(Item{ProductID: 1, Price: 500, Qty: 2}))
	require.NoError(t, s.AddToCart(Item{ProductID: 2, Price: 1000, Qty: 1}))

	got := s.Totals(pricing.DefaultPolicy())
	assert.Equal(t, float64(2000), got.Subtotal)
	assert.Equal(t, float64(0), got.Shipping)
	assert.Equal(t, float64(360), got.Tax)
	assert.Equal(t, float64(2360), got.Total)
}
