package catalog

import (
	product "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1000)
	// minBoundsGap keeps the price slider usable when the catalog clusters
	// around a single price point.
	minBoundsGap = decimal.NewFromInt(10000)
)

// PriceBounds computes the catalog-wide price interval, floored and ceiled
// to the nearest thousand with a guaranteed minimum gap. An empty catalog
// yields the zero-to-gap interval.
func PriceBounds(products []product.Product) PriceRange {
	if len(products) == 0 {
		return PriceRange{Min: decimal.Zero, Max: minBoundsGap}
	}

	min := products[0].Price
	max := products[0].Price
	for _, p := range products[1:] {
		if p.Price.LessThan(min) {
			min = p.Price
		}
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}

	floor := min.Div(thousand).Floor().Mul(thousand)
	ceil := max.Div(thousand).Ceil().Mul(thousand)

	if gap := floor.Add(minBoundsGap); ceil.LessThan(gap) {
		ceil = gap
	}
	return PriceRange{Min: floor, Max: ceil}
}

// Clamp pins the selection's price range inside the catalog bounds and fills
// an empty selection range with the full bounds.
func Clamp(selection FilterSelection, bounds PriceRange) FilterSelection {
	r := selection.PriceRange
	if r.Min.IsZero() && r.Max.IsZero() {
		selection.PriceRange = bounds
		return selection
	}
	if r.Min.LessThan(bounds.Min) {
		r.Min = bounds.Min
	}
	if r.Max.GreaterThan(bounds.Max) || r.Max.IsZero() {
		r.Max = bounds.Max
	}
	if r.Min.GreaterThan(r.Max) {
		r.Min = bounds.Min
		r.Max = bounds.Max
	}
	selection.PriceRange = r
	return selection
}

// Paginate slices the filtered list into the requested page. Page numbers
// are 1-based; out-of-range pages yield an empty slice.
func Paginate(products []product.Product, page, perPage int) []product.Product {
	if perPage <= 0 || page <= 0 {
		return []product.Product{}
	}
	start := (page - 1) * perPage
	if start >= len(products) {
		return []product.Product{}
	}
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
