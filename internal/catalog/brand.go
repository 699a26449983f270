package catalog

import (
	"encoding/json"
	"strings"

	product "github.com/geolex-tech/storefront-backend/internal/products"
)

// ExtractBrand resolves a product's brand on a best-effort basis: first the
// already-parsed specification map, then a re-parse of the raw payload in
// both the flat and nested shapes. Returns "" when no brand is present.
func ExtractBrand(p product.Product) string {
	if brand, ok := p.Specifications["Brand"]; ok {
		if trimmed := strings.TrimSpace(brand); trimmed != "" {
			return trimmed
		}
	}

	raw := strings.TrimSpace(p.SpecSource)
	if raw == "" {
		return ""
	}

	var outer map[string]any
	if err := json.Unmarshal([]byte(raw), &outer); err != nil {
		return ""
	}

	if brand := brandFromMap(outer); brand != "" {
		return brand
	}

	features, ok := outer["features"].([]any)
	if !ok {
		return ""
	}
	for _, feature := range features {
		switch v := feature.(type) {
		case string:
			var inner map[string]any
			if err := json.Unmarshal([]byte(v), &inner); err != nil {
				continue
			}
			if brand := brandFromMap(inner); brand != "" {
				return brand
			}
		case map[string]any:
			if brand := brandFromMap(v); brand != "" {
				return brand
			}
		}
	}
	return ""
}

func brandFromMap(values map[string]any) string {
	raw, ok := values["Brand"]
	if !ok {
		return ""
	}
	brand, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(brand)
}
