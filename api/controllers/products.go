package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/geolex-tech/storefront-backend/api/responses"
	"github.com/geolex-tech/storefront-backend/api/validators"
	"github.com/geolex-tech/storefront-backend/internal/catalog"
	productsvc "github.com/geolex-tech/storefront-backend/internal/products"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/geolex-tech/storefront-backend/pkg/pagination"
)

type categoryPageResponse struct {
	Products    []productsvc.Product    `json:"products"`
	Page        int                     `json:"page"`
	PageCount   int                     `json:"pageCount"`
	Total       int                     `json:"total"`
	PriceBounds catalog.PriceRange      `json:"priceBounds"`
	Applied     catalog.FilterSelection `json:"applied"`
}

// ProductsList returns the full active website catalog.
func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.ListProducts(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// ProductsByCategory filters, sorts and paginates one category. Filters are
// query parameters so category pages stay linkable.
func ProductsByCategory(svc productsvc.Service, pageSize int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		category := strings.TrimSpace(chi.URLParam(r, "category"))
		if category == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category is required"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		selection, err := parseFilterSelection(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sortKey := parseSortKey(r.URL.Query().Get("sort"))

		products, err := svc.ListByCategory(ctx, category)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bounds := catalog.PriceBounds(products)
		selection = catalog.Clamp(selection, bounds)

		filtered := catalog.Apply(products, selection, sortKey)
		pageItems := catalog.Paginate(filtered, page, pageSize)

		responses.WriteSuccess(w, categoryPageResponse{
			Products:    pageItems,
			Page:        page,
			PageCount:   pagination.PageCount(len(filtered), pageSize),
			Total:       len(filtered),
			PriceBounds: bounds,
			Applied:     selection,
		})
	}
}

// ProductsFeatured returns the curated featured set.
func ProductsFeatured(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.ListFeatured(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// ProductsSearch matches the term against name, description and keywords.
func ProductsSearch(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		term := strings.TrimSpace(r.URL.Query().Get("q"))
		if term == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "q is required"))
			return
		}

		products, err := svc.Search(ctx, term)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// ProductGet returns one product by id.
func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.GetProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func parseFilterSelection(r *http.Request) (catalog.FilterSelection, error) {
	query := r.URL.Query()

	selection := catalog.FilterSelection{
		Brands:       splitCSV(query.Get("brands")),
		Availability: splitCSV(query.Get("availability")),
	}

	min, err := parsePriceParam(query.Get("minPrice"), "minPrice")
	if err != nil {
		return catalog.FilterSelection{}, err
	}
	max, err := parsePriceParam(query.Get("maxPrice"), "maxPrice")
	if err != nil {
		return catalog.FilterSelection{}, err
	}
	selection.PriceRange = catalog.PriceRange{Min: min, Max: max}

	return selection, nil
}

func parsePriceParam(raw, name string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a non-negative number")
	}
	return value, nil
}

func parseSortKey(raw string) catalog.SortKey {
	switch catalog.SortKey(strings.TrimSpace(raw)) {
	case catalog.SortPriceAsc:
		return catalog.SortPriceAsc
	case catalog.SortPriceDesc:
		return catalog.SortPriceDesc
	case catalog.SortPopularity:
		return catalog.SortPopularity
	case catalog.SortDate:
		return catalog.SortDate
	default:
		return catalog.SortDefault
	}
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
