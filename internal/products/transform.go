package product

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/geolex-tech/storefront-backend/pkg/config"
	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultUnitOfMeasure = "pcs"

// SpecShape tags which payload variant a specifications string contained.
type SpecShape string

const (
	// SpecShapeNone marks an absent or empty payload.
	SpecShapeNone SpecShape = "none"
	// SpecShapeFlat marks a plain key/value object.
	SpecShapeFlat SpecShape = "flat"
	// SpecShapeNested marks the legacy {"features":[...]} wrapper.
	SpecShapeNested SpecShape = "nested"
	// SpecShapeInvalid marks payloads that failed to parse.
	SpecShapeInvalid SpecShape = "invalid"
)

// Flat payloads are recognized by any of these keys appearing at the top level.
var flatMarkerKeys = []string{"Brand", "description", "Processor"}

// SpecResult is the outcome of parsing a specifications payload.
type SpecResult struct {
	Shape  SpecShape
	Values map[string]string
}

// Product is the storefront-facing catalog item derived from an inventory row.
type Product struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Price          decimal.Decimal   `json:"price"`
	OriginalPrice  *decimal.Decimal  `json:"originalPrice,omitempty"`
	SalePrice      *decimal.Decimal  `json:"salePrice,omitempty"`
	Image          string            `json:"image"`
	Category       string            `json:"category"`
	Description    string            `json:"description"`
	Specs          []string          `json:"specs"`
	Specifications map[string]string `json:"specifications"`
	SpecSource     string            `json:"-"`
	InStock        bool              `json:"inStock"`
	Stock          int               `json:"stock"`
	IsOnSale       bool              `json:"isOnSale"`
	IsFeatured     bool              `json:"isFeatured"`
	SKU            string            `json:"sku,omitempty"`
	UnitOfMeasure  string            `json:"unitOfMeasure"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Transformer converts inventory rows into storefront products. Conversion
// never fails; broken specification payloads degrade to an empty map.
type Transformer struct {
	logg             *logger.Logger
	placeholderImage string
}

// NewTransformer builds a transformer using the configured placeholder image.
func NewTransformer(logg *logger.Logger, cfg config.StorefrontConfig) *Transformer {
	return &Transformer{
		logg:             logg,
		placeholderImage: cfg.PlaceholderImage,
	}
}

// Transform maps one inventory row to a Product.
func (t *Transformer) Transform(ctx context.Context, item models.InventoryItem) Product {
	base := decimal.Zero
	if item.SellingPrice != nil {
		base = *item.SellingPrice
	}

	price := base
	var salePrice, originalPrice *decimal.Decimal
	isOnSale := false
	if item.SalePrice != nil && !item.SalePrice.IsZero() {
		sale := *item.SalePrice
		price = sale
		salePrice = &sale
		if base.IsPositive() && sale.LessThan(base) {
			isOnSale = true
			orig := base
			originalPrice = &orig
		}
	}

	specSource := ""
	if item.Specifications != nil {
		specSource = *item.Specifications
	}
	result := ParseSpecifications(specSource)
	if result.Shape == SpecShapeInvalid && t.logg != nil {
		lctx := t.logg.WithFields(ctx, map[string]any{
			"product_id": item.ID.String(),
		})
		t.logg.Warn(lctx, "unparseable specifications payload, using empty map")
	}

	image := t.placeholderImage
	if item.ImageURL != nil && *item.ImageURL != "" {
		image = *item.ImageURL
	}

	category := "Uncategorized"
	switch {
	case item.CategoryName != nil && *item.CategoryName != "":
		category = *item.CategoryName
	case item.Category != nil && *item.Category != "":
		category = *item.Category
	}

	description := ""
	if item.Description != nil {
		description = *item.Description
	}

	sku := ""
	if item.SKU != nil {
		sku = *item.SKU
	}

	unit := defaultUnitOfMeasure
	if item.UnitOfMeasure != nil && *item.UnitOfMeasure != "" {
		unit = *item.UnitOfMeasure
	}

	return Product{
		ID:             item.ID,
		Name:           item.Name,
		Price:          price,
		OriginalPrice:  originalPrice,
		SalePrice:      salePrice,
		Image:          image,
		Category:       category,
		Description:    description,
		Specs:          specLines(result.Values),
		Specifications: result.Values,
		SpecSource:     specSource,
		InStock:        item.CurrentStock > 0,
		Stock:          item.CurrentStock,
		IsOnSale:       isOnSale,
		IsFeatured:     item.IsFeatured,
		SKU:            sku,
		UnitOfMeasure:  unit,
		CreatedAt:      item.CreatedAt,
	}
}

// ParseSpecifications classifies and flattens a specifications payload.
//
// Two shapes occur in the catalog: a flat key/value object, and a nested
// {"features":[...]} wrapper whose first element may be a JSON-encoded
// object, a plain string, or an object. Anything else degrades to an empty
// map and is reported through the Shape tag, never as an error.
func ParseSpecifications(raw string) SpecResult {
	empty := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return SpecResult{Shape: SpecShapeNone, Values: empty}
	}

	var outer map[string]any
	if err := json.Unmarshal([]byte(raw), &outer); err != nil {
		return SpecResult{Shape: SpecShapeInvalid, Values: empty}
	}

	for _, marker := range flatMarkerKeys {
		if _, ok := outer[marker]; ok {
			return SpecResult{Shape: SpecShapeFlat, Values: stringifyValues(outer)}
		}
	}

	if rawFeatures, ok := outer["features"]; ok {
		features, ok := rawFeatures.([]any)
		if !ok || len(features) == 0 {
			return SpecResult{Shape: SpecShapeNested, Values: empty}
		}
		return SpecResult{Shape: SpecShapeNested, Values: parseFeature(features[0])}
	}

	if len(outer) > 0 && scalarOnly(outer) {
		return SpecResult{Shape: SpecShapeFlat, Values: stringifyValues(outer)}
	}

	return SpecResult{Shape: SpecShapeNone, Values: empty}
}

func parseFeature(feature any) map[string]string {
	switch v := feature.(type) {
	case string:
		var inner map[string]any
		if err := json.Unmarshal([]byte(v), &inner); err == nil {
			return stringifyValues(inner)
		}
		// Not JSON, keep the text as a single feature line.
		return map[string]string{"Features": v}
	case map[string]any:
		return stringifyValues(v)
	default:
		return map[string]string{}
	}
}

func scalarOnly(values map[string]any) bool {
	for _, v := range values {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func stringifyValues(values map[string]any) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		switch typed := v.(type) {
		case string:
			out[k] = typed
		case float64:
			out[k] = trimFloat(typed)
		case bool:
			out[k] = fmt.Sprintf("%t", typed)
		case nil:
			out[k] = ""
		default:
			encoded, err := json.Marshal(typed)
			if err != nil {
				out[k] = fmt.Sprint(typed)
				continue
			}
			out[k] = string(encoded)
		}
	}
	return out
}

func trimFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
}

func specLines(values map[string]string) []string {
	if len(values) == 0 {
		return []string{}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, values[k]))
	}
	return lines
}
