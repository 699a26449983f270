// Package wishlist holds the customer wishlist as a value type with pure
// transitions. Persistence is handled by the cart store, which snapshots
// both lists together.
package wishlist

import (
	product "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is a saved product reference with enough display data to render the
// wishlist without refetching the catalog.
type Entry struct {
	ProductID     uuid.UUID        `json:"productId"`
	Name          string           `json:"name"`
	Image         string           `json:"image"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Category      string           `json:"category"`
	InStock       bool             `json:"inStock"`
}

// EntryFor builds a wishlist entry from a storefront product. The original
// price is carried only for discounted products, so the wishlist can render
// the strike-through without refetching.
func EntryFor(p product.Product) Entry {
	return Entry{
		ProductID:     p.ID,
		Name:          p.Name,
		Image:         p.Image,
		Price:         p.Price,
		OriginalPrice: copyPrice(p.OriginalPrice),
		Category:      p.Category,
		InStock:       p.InStock,
	}
}

func copyPrice(price *decimal.Decimal) *decimal.Decimal {
	if price == nil {
		return nil
	}
	v := *price
	return &v
}

// Contains reports whether the list already holds the product.
func Contains(list []Entry, productID uuid.UUID) bool {
	for _, entry := range list {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// Toggle adds the product when absent and removes it when present. It
// returns a fresh list and whether the product was added.
func Toggle(list []Entry, p product.Product) ([]Entry, bool) {
	if Contains(list, p.ID) {
		return Remove(list, p.ID), false
	}
	next := make([]Entry, 0, len(list)+1)
	next = append(next, list...)
	next = append(next, EntryFor(p))
	return next, true
}

// Append adds the entry unless the product is already present. The second
// return value reports whether the list changed.
func Append(list []Entry, entry Entry) ([]Entry, bool) {
	if Contains(list, entry.ProductID) {
		next := make([]Entry, len(list))
		copy(next, list)
		return next, false
	}
	next := make([]Entry, 0, len(list)+1)
	next = append(next, list...)
	next = append(next, entry)
	return next, true
}

// Remove drops the product from the list. Unknown ids leave the list
// unchanged.
func Remove(list []Entry, productID uuid.UUID) []Entry {
	next := make([]Entry, 0, len(list))
	for _, entry := range list {
		if entry.ProductID == productID {
			continue
		}
		next = append(next, entry)
	}
	return next
}
