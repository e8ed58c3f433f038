// Package cartstate is the client-held pre-checkout state: cart line items,
// shipping address, payment method and wishlist, loaded from a storage port
// on start and written back on every mutation. The server never sees any of
// it until checkout copies the cart into an order.
package cartstate

import (
	"github.com/vastra-wear/vastra/internal/pricing"
	"github.com/vastra-wear/vastra/pkg/storage"
)

// Storage keys, one JSON document each.
const (
	cartItemsKey       = "cartItems"
	shippingAddressKey = "shippingAddress"
	paymentMethodKey   = "paymentMethod"
	wishlistItemsKey   = "wishlistItems"
)

const defaultPaymentMethod = "PayPal"

// Item is one cart line. StockSnapshot is what the product page knew about
// availability at add time; it is display data, not a reservation.
type Item struct {
	ProductID     uint    `json:"product"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	Price         float64 `json:"price"`
	Qty           uint    `json:"qty"`
	Size          string  `json:"size,omitempty"`
	Color         string  `json:"color,omitempty"`
	StockSnapshot uint    `json:"countInStock"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// WishItem is a saved-for-later product reference.
type WishItem struct {
	ProductID uint    `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
}

type State struct {
	store storage.Store

	CartItems       []Item
	ShippingAddress Address
	PaymentMethod   string
	WishlistItems   []WishItem
}

// Load restores all persisted state from the store. Missing keys leave
// zero values; the payment method falls back to its default.
func Load(store storage.Store) (*State, error) {
	s := &State{store: store, PaymentMethod: defaultPaymentMethod}

	if _, err := store.Get(cartItemsKey, &s.CartItems); err != nil {
		return nil, err
	}
	if _, err := store.Get(shippingAddressKey, &s.ShippingAddress); err != nil {
		return nil, err
	}
	if _, err := store.Get(paymentMethodKey, &s.PaymentMethod); err != nil {
		return nil, err
	}
	if _, err := store.Get(wishlistItemsKey, &s.WishlistItems); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *State) SaveShippingAddress(a Address) error {
	s.ShippingAddress = a
	return s.store.Set(shippingAddressKey, a)
}

func (s *State) SavePaymentMethod(method string) error {
	s.PaymentMethod = method
	return s.store.Set(paymentMethodKey, method)
}

// Totals quotes the current cart against a pricing policy.
func (s *State) Totals(p pricing.Policy) pricing.Totals {
	lines := make([]pricing.Line, 0, len(s.CartItems))
	for _, it := range s.CartItems {
		lines = append(lines, pricing.Line{Price: it.Price, Qty: it.Qty})
	}
	return p.Quote(lines)
}
