package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/geolex-tech/storefront-backend/api/middleware"
	"github.com/geolex-tech/storefront-backend/api/responses"
	"github.com/geolex-tech/storefront-backend/api/validators"
	ordersvc "github.com/geolex-tech/storefront-backend/internal/orders"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
)

type accountEditabilityResponse struct {
	CanEdit      bool `json:"canEdit"`
	PendingCount int  `json:"pendingCount"`
}

// OrdersList returns the caller's orders, newest first.
func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		orders, err := svc.ListOrders(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// OrderGet returns one of the caller's orders with its line items.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.GetOrder(ctx, orderID, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// AccountEditability reports whether account details may be edited. Details
// lock while any order is still open, since open orders ship to them.
func AccountEditability(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		canEdit, err := svc.CanEditAccountDetails(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pending, err := svc.PendingCount(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, accountEditabilityResponse{CanEdit: canEdit, PendingCount: pending})
	}
}
