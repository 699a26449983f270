// Package checkout orchestrates order placement: profile prefill,
// whole-form validation, session verification with a single re-auth retry,
// profile upsert, and the transactional order write.
package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/geolex-tech/storefront-backend/internal/cart"
	"github.com/geolex-tech/storefront-backend/internal/orders"
	"github.com/geolex-tech/storefront-backend/internal/users"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// State is the checkout progress for one customer.
type State string

const (
	StateIdle           State = "idle"
	StateProfileLoading State = "profile_loading"
	StateProfileReady   State = "profile_ready"
	StateValidating     State = "validating"
	StateSubmitting     State = "submitting"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
)

// Customer identifies the authenticated shopper placing the order.
type Customer struct {
	UserID   uuid.UUID
	AccessID string
}

// Authenticator confirms the customer still holds a live session. Ensure
// returning an error triggers exactly one Reauthenticate attempt followed
// by a final Ensure; there is never a retry loop.
type Authenticator interface {
	Ensure(ctx context.Context, accessID string) error
	Reauthenticate(ctx context.Context, accessID string) error
}

// Service drives the checkout flow.
type Service interface {
	Status(userID uuid.UUID) State
	LoadProfile(ctx context.Context, userID uuid.UUID) (*Form, error)
	Submit(ctx context.Context, customer Customer, form Form) (*orders.Summary, error)
}

type service struct {
	mu     sync.Mutex
	states map[uuid.UUID]State

	auth     Authenticator
	profiles users.Service
	orders   orders.Service
	carts    *cart.Manager
	logg     *logger.Logger
}

// NewService constructs a checkout service instance.
func NewService(
	auth Authenticator,
	profiles users.Service,
	orderSvc orders.Service,
	carts *cart.Manager,
	logg *logger.Logger,
) (Service, error) {
	if auth == nil {
		return nil, fmt.Errorf("authenticator required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("users service required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		states:   map[uuid.UUID]State{},
		auth:     auth,
		profiles: profiles,
		orders:   orderSvc,
		carts:    carts,
		logg:     logg,
	}, nil
}

func (s *service) Status(userID uuid.UUID) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[userID]; ok {
		return state
	}
	return StateIdle
}

// LoadProfile prefills the checkout form from the saved profile. A missing
// profile leaves the form empty rather than failing the flow.
func (s *service) LoadProfile(ctx context.Context, userID uuid.UUID) (*Form, error) {
	s.setState(userID, StateProfileLoading)

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if e := pkgerrors.As(err); e != nil && e.Code() == pkgerrors.CodeNotFound {
			s.setState(userID, StateProfileReady)
			return &Form{}, nil
		}
		s.setState(userID, StateIdle)
		return nil, err
	}

	s.setState(userID, StateProfileReady)
	return &Form{
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Email:          profile.Email,
		Phone:          profile.Phone,
		AlternatePhone: profile.AlternatePhone,
		Address:        profile.Address,
		City:           profile.City,
		PostalCode:     profile.PostalCode,
	}, nil
}

// Submit validates the form, verifies the session, upserts the profile,
// and places the order. The profile write is not rolled back when the
// order write fails; a successful order clears the cart.
func (s *service) Submit(ctx context.Context, customer Customer, form Form) (*orders.Summary, error) {
	s.setState(customer.UserID, StateValidating)

	if err := Validate(form); err != nil {
		s.setState(customer.UserID, StateProfileReady)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout details are incomplete").
			WithDetails(Violations(err))
	}

	if err := s.ensureSession(ctx, customer.AccessID); err != nil {
		s.setState(customer.UserID, StateProfileReady)
		return nil, err
	}

	if err := s.beginSubmit(customer.UserID); err != nil {
		return nil, err
	}

	store := s.carts.StoreFor(ctx, customer.UserID.String())
	lines := store.Lines()
	if len(lines) == 0 {
		s.setState(customer.UserID, StateFailed)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	// Profile first. If this fails the order is never attempted.
	if _, err := s.profiles.UpdateProfile(ctx, customer.UserID, users.ProfileUpdate{
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		Phone:          form.Phone,
		AlternatePhone: form.AlternatePhone,
		Address:        form.Address,
		City:           form.City,
		PostalCode:     form.PostalCode,
	}); err != nil {
		s.setState(customer.UserID, StateFailed)
		return nil, err
	}

	summary, err := s.orders.CreateOrder(ctx, orderInput(customer.UserID, form, lines))
	if err != nil {
		// The profile upsert stands; the customer retries from validation.
		s.setState(customer.UserID, StateFailed)
		return nil, err
	}

	store.Clear(ctx)
	s.setState(customer.UserID, StateSucceeded)
	s.logg.Info(s.logg.WithCustomerID(ctx, customer.UserID.String()), "order placed: "+summary.OrderNumber)
	return summary, nil
}

// ensureSession verifies the session, attempting one re-auth when the
// first check fails.
func (s *service) ensureSession(ctx context.Context, accessID string) error {
	if err := s.auth.Ensure(ctx, accessID); err == nil {
		return nil
	}

	if err := s.auth.Reauthenticate(ctx, accessID); err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "your session has expired, please sign in again")
	}
	if err := s.auth.Ensure(ctx, accessID); err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "your session has expired, please sign in again")
	}
	return nil
}

// beginSubmit flips the customer into Submitting unless a submission is
// already in flight.
func (s *service) beginSubmit(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states[userID] == StateSubmitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "an order is already being placed")
	}
	s.states[userID] = StateSubmitting
	return nil
}

func (s *service) setState(userID uuid.UUID, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A submission in flight owns the state until it settles.
	if s.states[userID] == StateSubmitting && state != StateSucceeded && state != StateFailed {
		return
	}

	// Settled and idle flows are dropped rather than stored, so the map
	// only holds customers with a checkout in flight. The submit result
	// carries the outcome; a later Status reads Idle.
	if state == StateIdle || state == StateSucceeded || state == StateFailed {
		delete(s.states, userID)
		return
	}
	s.states[userID] = state
}

func orderInput(userID uuid.UUID, form Form, lines []cart.LineItem) orders.CreateInput {
	orderLines := make([]orders.CreateLine, 0, len(lines))
	for _, line := range lines {
		productID := line.ProductID
		orderLines = append(orderLines, orders.CreateLine{
			ProductID: &productID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	return orders.CreateInput{
		UserID:         userID,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		Email:          form.Email,
		Phone:          form.Phone,
		AlternatePhone: form.AlternatePhone,
		Address:        form.Address,
		City:           form.City,
		PostalCode:     form.PostalCode,
		Notes:          form.Notes,
		Lines:          orderLines,
	}
}
