package cartstate

// AddToCart puts an item in the cart. Adding a product that is already
// present replaces its entry outright, so the cart never holds two lines
// for one product. The quantity is stored as given: clamping to [1, stock]
// is the caller's job (see ClampQty).
func (s *State) AddToCart(item Item) error {
	replaced := false
	for i := range s.CartItems {
		if s.CartItems[i].ProductID == item.ProductID {
			s.CartItems[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		s.CartItems = append(s.CartItems, item)
	}
	return s.store.Set(cartItemsKey, s.CartItems)
}

// RemoveFromCart drops the line for a product. Removing an absent product
// is a no-op.
func (s *State) RemoveFromCart(productID uint) error {
	kept := s.CartItems[:0]
	for _, it := range s.CartItems {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.CartItems = kept
	return s.store.Set(cartItemsKey, s.CartItems)
}

// ClearCart empties the cart and drops its persisted key, as checkout does
// after a successful order.
func (s *State) ClearCart() error {
	s.CartItems = nil
	return s.store.Delete(cartItemsKey)
}

// ClampQty bounds a requested quantity to [1, stock] for UI callers.
func ClampQty(qty, stock uint) uint {
	if qty < 1 {
		return 1
	}
	if stock > 0 && qty > stock {
		return stock
	}
	return qty
}
