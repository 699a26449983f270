package cart

import (
	"testing"

	product "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/geolex-tech/storefront-backend/internal/wishlist"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockedProduct(name string, price int64) product.Product {
	return product.Product{
		ID:       uuid.New(),
		Name:     name,
		Image:    "/img/" + name + ".png",
		Price:    decimal.NewFromInt(price),
		Category: "Components",
		InStock:  true,
		Stock:    5,
	}
}

func TestAddOrIncrement(t *testing.T) {
	p := stockedProduct("cpu", 25000)

	lines, effects := AddOrIncrement(nil, p)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(p.Price))
	assert.Equal(t, []Effect{EffectPersistCart}, effects)

	lines, effects = AddOrIncrement(lines, p)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, []Effect{EffectPersistCart}, effects)
}

func TestAddOrIncrementOutOfStock(t *testing.T) {
	p := stockedProduct("gpu", 90000)
	p.InStock = false

	lines, effects := AddOrIncrement(nil, p)
	assert.Empty(t, lines)
	assert.Empty(t, effects)
}

func TestSetQuantity(t *testing.T) {
	p := stockedProduct("ram", 8000)
	lines, _ := AddOrIncrement(nil, p)

	lines, effects := SetQuantity(lines, p.ID, 4)
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, []Effect{EffectPersistCart}, effects)

	t.Run("zero removes the line", func(t *testing.T) {
		next, effects := SetQuantity(lines, p.ID, 0)
		assert.Empty(t, next)
		assert.Equal(t, []Effect{EffectPersistCart}, effects)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		next, effects := SetQuantity(lines, uuid.New(), 3)
		assert.Equal(t, lines, next)
		assert.Empty(t, effects)
	})
}

func TestRemove(t *testing.T) {
	a := stockedProduct("ssd", 12000)
	b := stockedProduct("hdd", 6000)
	lines, _ := AddOrIncrement(nil, a)
	lines, _ = AddOrIncrement(lines, b)

	next, effects := Remove(lines, a.ID)
	require.Len(t, next, 1)
	assert.Equal(t, b.ID, next[0].ProductID)
	assert.Equal(t, []Effect{EffectPersistCart}, effects)

	next, effects = Remove(next, a.ID)
	assert.Len(t, next, 1)
	assert.Empty(t, effects)
}

func TestMoveToWishlist(t *testing.T) {
	p := stockedProduct("monitor", 30000)
	lines, _ := AddOrIncrement(nil, p)
	lines, _ = SetQuantity(lines, p.ID, 3)

	nextLines, list, effects := MoveToWishlist(lines, nil, p.ID)
	assert.Empty(t, nextLines)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ProductID)
	assert.True(t, list[0].Price.Equal(p.Price))
	assert.Equal(t, p.Category, list[0].Category)
	assert.True(t, list[0].InStock)
	assert.ElementsMatch(t, []Effect{EffectPersistCart, EffectPersistWishlist}, effects)

	t.Run("already wishlisted stays single", func(t *testing.T) {
		again, _ := AddOrIncrement(nil, p)
		nextLines, nextList, effects := MoveToWishlist(again, list, p.ID)
		assert.Empty(t, nextLines)
		assert.Len(t, nextList, 1)
		assert.Equal(t, []Effect{EffectPersistCart}, effects)
	})

	t.Run("unknown id leaves both lists", func(t *testing.T) {
		nextLines, nextList, effects := MoveToWishlist(lines, list, uuid.New())
		assert.Equal(t, lines, nextLines)
		assert.Equal(t, list, nextList)
		assert.Empty(t, effects)
	})
}

func TestMoveToWishlistKeepsSalePricing(t *testing.T) {
	p := stockedProduct("gpu", 90000)
	original := decimal.NewFromInt(110000)
	p.OriginalPrice = &original
	p.IsOnSale = true
	lines, _ := AddOrIncrement(nil, p)

	require.NotNil(t, lines[0].OriginalPrice)
	assert.True(t, lines[0].OriginalPrice.Equal(original))

	_, list, _ := MoveToWishlist(lines, nil, p.ID)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].OriginalPrice)
	assert.True(t, list[0].OriginalPrice.Equal(original))
	assert.Equal(t, p.Category, list[0].Category)
}

func TestMoveToWishlistOutOfStockLine(t *testing.T) {
	p := stockedProduct("monitor", 30000)
	lines, _ := AddOrIncrement(nil, p)
	// stock ran out after the add; the snapshot keeps what was true then
	lines[0].InStock = false

	_, list, _ := MoveToWishlist(lines, nil, p.ID)
	require.Len(t, list, 1)
	assert.False(t, list[0].InStock)
}

func TestMoveToWishlistNeverPartial(t *testing.T) {
	p := stockedProduct("keyboard", 4500)
	lines, _ := AddOrIncrement(nil, p)

	nextLines, list, _ := MoveToWishlist(lines, nil, p.ID)
	removed := len(nextLines) == len(lines)-1
	appended := wishlist.Contains(list, p.ID)
	assert.Equal(t, removed, appended, "line removal and wishlist append must land together")
}

func TestSubtotalAndTotalQuantity(t *testing.T) {
	a := stockedProduct("mouse", 1500)
	b := stockedProduct("pad", 500)
	lines, _ := AddOrIncrement(nil, a)
	lines, _ = SetQuantity(lines, a.ID, 2)
	lines, _ = AddOrIncrement(lines, b)

	assert.True(t, Subtotal(lines).Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, 3, TotalQuantity(lines))
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	p := stockedProduct("cooler", 2500)
	lines, _ := AddOrIncrement(nil, p)

	_, _ = SetQuantity(lines, p.ID, 9)
	assert.Equal(t, 1, lines[0].Quantity)

	_, _ = Remove(lines, p.ID)
	assert.Len(t, lines, 1)
}
