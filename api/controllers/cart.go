package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/geolex-tech/storefront-backend/api/middleware"
	"github.com/geolex-tech/storefront-backend/api/responses"
	"github.com/geolex-tech/storefront-backend/api/validators"
	cartsvc "github.com/geolex-tech/storefront-backend/internal/cart"
	productsvc "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/geolex-tech/storefront-backend/internal/wishlist"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
)

type cartItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items         []cartsvc.LineItem `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TotalQuantity int                `json:"totalQuantity"`
}

type cartMoveResponse struct {
	Cart     cartResponse     `json:"cart"`
	Wishlist []wishlist.Entry `json:"wishlist"`
}

func newCartResponse(lines []cartsvc.LineItem) cartResponse {
	return cartResponse{
		Items:         lines,
		Subtotal:      cartsvc.Subtotal(lines),
		TotalQuantity: cartsvc.TotalQuantity(lines),
	}
}

func cartStoreFor(r *http.Request, manager *cartsvc.Manager) (*cartsvc.Store, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return manager.StoreFor(r.Context(), userID.String()), nil
}

// CartGet returns the caller's cart.
func CartGet(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		store, err := cartStoreFor(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store.Lines()))
	}
}

// CartAdd puts one unit of a product in the cart, incrementing an existing
// line. Out-of-stock products leave the cart unchanged.
func CartAdd(manager *cartsvc.Manager, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil || products == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
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
		if !product.InStock {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock"))
			return
		}

		responses.WriteSuccess(w, newCartResponse(store.Add(ctx, *product)))
	}
}

// CartSetQuantity sets the quantity of a cart line. Zero or less removes it.
func CartSetQuantity(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		store, err := cartStoreFor(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store.UpdateQuantity(ctx, productID, body.Quantity)))
	}
}

// CartRemove deletes a cart line.
func CartRemove(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		store, err := cartStoreFor(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store.RemoveLine(ctx, productID)))
	}
}

// CartMoveToWishlist moves a whole cart line into the wishlist.
func CartMoveToWishlist(manager *cartsvc.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if manager == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		store, err := cartStoreFor(r, manager)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines, entries := store.MoveToWishlist(ctx, productID)
		responses.WriteSuccess(w, cartMoveResponse{Cart: newCartResponse(lines), Wishlist: entries})
	}
}
