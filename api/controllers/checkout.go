package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/geolex-tech/storefront-backend/api/middleware"
	"github.com/geolex-tech/storefront-backend/api/responses"
	"github.com/geolex-tech/storefront-backend/api/validators"
	checkoutsvc "github.com/geolex-tech/storefront-backend/internal/checkout"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
)

// CheckoutProfile returns the checkout form prefilled from the saved profile.
func CheckoutProfile(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		form, err := svc.LoadProfile(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, form)
	}
}

// CheckoutStatus reports the caller's current checkout state.
func CheckoutStatus(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"state": string(svc.Status(userID))})
	}
}

// CheckoutSubmit validates the form, saves it to the profile and places the
// order from the current cart.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		if userID == uuid.Nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		accessID := middleware.AccessIDFromContext(ctx)

		var form checkoutsvc.Form
		if err := validators.DecodeJSONBody(r, &form); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summary, err := svc.Submit(ctx, checkoutsvc.Customer{UserID: userID, AccessID: accessID}, form)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}
