package controllers

import (
	"net/http"

	"github.com/geolex-tech/storefront-backend/api/responses"
	"github.com/geolex-tech/storefront-backend/api/validators"
	cartsvc "github.com/geolex-tech/storefront-backend/internal/cart"
	productsvc "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/geolex-tech/storefront-backend/internal/wishlist"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
)

type wishlistToggleResponse struct {
	Items []wishlist.Entry `json:"items"`
	Added bool             `json:"added"`
}

// WishlistGet returns the caller's wishlist.
func WishlistGet(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist unavailable"))
			return
		}

		store, err := cartStoreFor(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, store.Wishlist())
	}
}

// WishlistToggle adds the product when absent and removes it when present.
func WishlistToggle(manager *cartsvc.Manager, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil || products == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist unavailable"))
			return
		}

		store, err := cartStoreFor(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body cartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := products.GetProduct(ctx, body.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, added := store.ToggleWishlist(ctx, *product)
		responses.WriteSuccess(w, wishlistToggleResponse{Items: items, Added: added})
	}
}
