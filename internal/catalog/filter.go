package catalog

import (
	"sort"
	"strings"

	product "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/shopspring/decimal"
)

// Availability filter option identifiers.
const (
	AvailabilityInStock    = "in-stock"
	AvailabilityOutOfStock = "out-of-stock"
)

// UnknownBrand is the bucket for products whose brand cannot be resolved.
const UnknownBrand = "unknown"

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortDefault    SortKey = "default"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortPopularity SortKey = "popularity"
	SortDate       SortKey = "date"
)

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether price falls inside the interval.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// FilterSelection is the full set of filters a shopper can apply. Filters
// combine conjunctively.
type FilterSelection struct {
	Brands       []string   `json:"brands"`
	Availability []string   `json:"availability"`
	PriceRange   PriceRange `json:"priceRange"`
}

// Apply filters products by the selection and orders the survivors by the
// sort key. The input slice is never mutated; every sort is stable.
func Apply(products []product.Product, selection FilterSelection, key SortKey) []product.Product {
	filtered := make([]product.Product, 0, len(products))
	for _, p := range products {
		if !passesBrand(p, selection.Brands) {
			continue
		}
		if !passesAvailability(p, selection.Availability) {
			continue
		}
		if !selection.PriceRange.Contains(p.Price) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, key)
	return filtered
}

func passesBrand(p product.Product, selected []string) bool {
	if len(selected) == 0 {
		return true
	}

	brand := ExtractBrand(p)
	if brand == "" {
		// Unresolvable brands pass only when the unknown bucket is selected.
		for _, id := range selected {
			if strings.EqualFold(id, UnknownBrand) {
				return true
			}
		}
		return false
	}

	normalized := normalizeBrand(brand)
	for _, id := range selected {
		if normalizeBrand(id) == normalized {
			return true
		}
	}
	return false
}

func passesAvailability(p product.Product, selected []string) bool {
	wantIn := containsFold(selected, AvailabilityInStock)
	wantOut := containsFold(selected, AvailabilityOutOfStock)
	if wantIn == wantOut {
		// Neither or both selected disables the filter.
		return true
	}
	if wantIn {
		return p.InStock
	}
	return !p.InStock
}

func sortProducts(products []product.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case SortPopularity:
		// In-stock items lead, cheapest first within each group.
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].InStock != products[j].InStock {
				return products[i].InStock
			}
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortDate:
		reverse(products)
	default:
		// Input order preserved.
	}
}

func reverse(products []product.Product) {
	for i, j := 0, len(products)-1; i < j; i, j = i+1, j-1 {
		products[i], products[j] = products[j], products[i]
	}
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}

func normalizeBrand(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}
