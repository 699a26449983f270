package wishlist

import (
	"testing"

	product "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProduct(name string) product.Product {
	return product.Product{
		ID:       uuid.New(),
		Name:     name,
		Image:    "/img/" + name + ".png",
		Price:    decimal.NewFromInt(4500),
		Category: "Accessories",
		InStock:  true,
	}
}

func TestEntryForSnapshotsDisplayFields(t *testing.T) {
	p := sampleProduct("gpu")
	original := decimal.NewFromInt(6000)
	p.OriginalPrice = &original
	p.IsOnSale = true

	entry := EntryFor(p)
	assert.Equal(t, "Accessories", entry.Category)
	assert.True(t, entry.InStock)
	require.NotNil(t, entry.OriginalPrice)
	assert.True(t, entry.OriginalPrice.Equal(original))

	// the entry must not alias the product's pointer
	assert.NotSame(t, p.OriginalPrice, entry.OriginalPrice)
}

func TestEntryForFullPriceHasNoOriginal(t *testing.T) {
	entry := EntryFor(sampleProduct("psu"))
	assert.Nil(t, entry.OriginalPrice)
}

func TestToggleAddsAndRemoves(t *testing.T) {
	p := sampleProduct("gpu")

	list, added := Toggle(nil, p)
	require.True(t, added)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ProductID)
	assert.Equal(t, p.Name, list[0].Name)
	assert.True(t, list[0].Price.Equal(p.Price))

	list, added = Toggle(list, p)
	assert.False(t, added)
	assert.Empty(t, list)
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	p := sampleProduct("case")
	original := []Entry{EntryFor(sampleProduct("fan"))}

	next, _ := Toggle(original, p)
	assert.Len(t, original, 1)
	assert.Len(t, next, 2)
}

func TestAppendIsIdempotent(t *testing.T) {
	entry := EntryFor(sampleProduct("psu"))

	list, changed := Append(nil, entry)
	require.True(t, changed)
	require.Len(t, list, 1)

	list, changed = Append(list, entry)
	assert.False(t, changed)
	assert.Len(t, list, 1)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	list := []Entry{EntryFor(sampleProduct("ssd"))}
	next := Remove(list, uuid.New())
	assert.Len(t, next, 1)
}
