package cartstate

// AddToWishlist saves a product for later. Adding one that is already saved
// is a no-op.
func (s *State) AddToWishlist(item WishItem) error {
	for _, it := range s.WishlistItems {
		if it.ProductID == item.ProductID {
			return nil
		}
	}
	s.WishlistItems = append(s.WishlistItems, item)
	return s.store.Set(wishlistItemsKey, s.WishlistItems)
}

// RemoveFromWishlist drops a saved product; removing an id that is not
// present leaves the list unchanged.
func (s *State) RemoveFromWishlist(productID uint) error {
	kept := s.WishlistItems[:0]
	for _, it := range s.WishlistItems {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.WishlistItems = kept
	return s.store.Set(wishlistItemsKey, s.WishlistItems)
}

func (s *State) InWishlist(productID uint) bool {
	for _, it := range s.WishlistItems {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *State) ClearWishlist() error {
	s.WishlistItems = nil
	return s.store.Delete(wishlistItemsKey)
}
