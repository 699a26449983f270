// Package cart implements the shopping cart as pure transitions over line
// item values plus effect descriptors, with a per-customer store that
// applies transitions under a mutex and snapshots state through redis.
package cart

import (
	product "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/geolex-tech/storefront-backend/internal/wishlist"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Effect names a persistence side effect a transition requests. Transitions
// only describe effects; the store executes them.
type Effect string

const (
	EffectPersistCart     Effect = "persist_cart"
	EffectPersistWishlist Effect = "persist_wishlist"
)

// LineItem is one cart row. Unit price and display fields are snapshotted
// at add time so the cart renders without a catalog round trip, and so a
// move to the wishlist keeps the product's sale pricing and category.
type LineItem struct {
	ProductID     uuid.UUID        `json:"productId"`
	Name          string           `json:"name"`
	Image         string           `json:"image"`
	UnitPrice     decimal.Decimal  `json:"unitPrice"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Category      string           `json:"category"`
	InStock       bool             `json:"inStock"`
	Quantity      int              `json:"quantity"`
}

// LineTotal is the row subtotal.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddOrIncrement adds the product to the cart, bumping the quantity when a
// line already exists. Out-of-stock products leave the cart unchanged and
// request no effects.
func AddOrIncrement(lines []LineItem, p product.Product) ([]LineItem, []Effect) {
	if !p.InStock {
		return copyLines(lines), nil
	}

	next := copyLines(lines)
	for i := range next {
		if next[i].ProductID == p.ID {
			next[i].Quantity++
			return next, []Effect{EffectPersistCart}
		}
	}

	next = append(next, LineItem{
		ProductID:     p.ID,
		Name:          p.Name,
		Image:         p.Image,
		UnitPrice:     p.Price,
		OriginalPrice: copyOriginalPrice(p.OriginalPrice),
		Category:      p.Category,
		InStock:       p.InStock,
		Quantity:      1,
	})
	return next, []Effect{EffectPersistCart}
}

// SetQuantity replaces a line's quantity. Zero or negative removes the
// line; unknown product ids are a no-op.
func SetQuantity(lines []LineItem, productID uuid.UUID, quantity int) ([]LineItem, []Effect) {
	idx := indexOf(lines, productID)
	if idx < 0 {
		return copyLines(lines), nil
	}
	if quantity <= 0 {
		return Remove(lines, productID)
	}

	next := copyLines(lines)
	next[idx].Quantity = quantity
	return next, []Effect{EffectPersistCart}
}

// Remove drops the line for the product. Unknown ids are a no-op.
func Remove(lines []LineItem, productID uuid.UUID) ([]LineItem, []Effect) {
	idx := indexOf(lines, productID)
	if idx < 0 {
		return copyLines(lines), nil
	}

	next := make([]LineItem, 0, len(lines)-1)
	next = append(next, lines[:idx]...)
	next = append(next, lines[idx+1:]...)
	return next, []Effect{EffectPersistCart}
}

// MoveToWishlist removes the whole line and appends a wishlist entry for
// the product. The append is idempotent and both lists are returned
// together so the caller never applies one half of the move. Unknown ids
// leave both lists untouched.
func MoveToWishlist(lines []LineItem, list []wishlist.Entry, productID uuid.UUID) ([]LineItem, []wishlist.Entry, []Effect) {
	idx := indexOf(lines, productID)
	if idx < 0 {
		return copyLines(lines), copyEntries(list), nil
	}

	line := lines[idx]
	nextLines, _ := Remove(lines, productID)
	nextList, added := wishlist.Append(list, wishlist.Entry{
		ProductID:     line.ProductID,
		Name:          line.Name,
		Image:         line.Image,
		Price:         line.UnitPrice,
		OriginalPrice: copyOriginalPrice(line.OriginalPrice),
		Category:      line.Category,
		InStock:       line.InStock,
	})

	effects := []Effect{EffectPersistCart}
	if added {
		effects = append(effects, EffectPersistWishlist)
	}
	return nextLines, nextList, effects
}

// Subtotal sums the line totals.
func Subtotal(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// TotalQuantity counts units across all lines.
func TotalQuantity(lines []LineItem) int {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

func indexOf(lines []LineItem, productID uuid.UUID) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func copyOriginalPrice(price *decimal.Decimal) *decimal.Decimal {
	if price == nil {
		return nil
	}
	v := *price
	return &v
}

func copyLines(lines []LineItem) []LineItem {
	next := make([]LineItem, len(lines))
	copy(next, lines)
	return next
}

func copyEntries(list []wishlist.Entry) []wishlist.Entry {
	next := make([]wishlist.Entry, len(list))
	copy(next, list)
	return next
}
