package cart

import (
	"context"
	"sync"

	product "github.com/geolex-tech/storefront-backend/internal/products"
	"github.com/geolex-tech/storefront-backend/internal/wishlist"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// Snapshots persists cart and wishlist state outside process memory. Loads
// run once per customer at store construction; saves run after every
// mutation.
type Snapshots interface {
	LoadCart(ctx context.Context, customerID string) ([]LineItem, error)
	SaveCart(ctx context.Context, customerID string, lines []LineItem) error
	LoadWishlist(ctx context.Context, customerID string) ([]wishlist.Entry, error)
	SaveWishlist(ctx context.Context, customerID string, entries []wishlist.Entry) error
}

// Store holds one customer's cart and wishlist. All transitions run under
// the store mutex; the in-memory state is authoritative and snapshot writes
// are best effort.
type Store struct {
	mu         sync.Mutex
	customerID string
	lines      []LineItem
	saved      []wishlist.Entry
	snapshots  Snapshots
	logg       *logger.Logger
}

// Lines returns a copy of the current cart.
func (s *Store) Lines() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.lines)
}

// Wishlist returns a copy of the current wishlist.
func (s *Store) Wishlist() []wishlist.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.saved)
}

// Add applies AddOrIncrement and persists the result.
func (s *Store) Add(ctx context.Context, p product.Product) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects := AddOrIncrement(s.lines, p)
	s.lines = next
	s.runEffects(ctx, effects)
	return copyLines(s.lines)
}

// UpdateQuantity applies SetQuantity and persists the result.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects := SetQuantity(s.lines, productID, quantity)
	s.lines = next
	s.runEffects(ctx, effects)
	return copyLines(s.lines)
}

// RemoveLine applies Remove and persists the result.
func (s *Store) RemoveLine(ctx context.Context, productID uuid.UUID) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects := Remove(s.lines, productID)
	s.lines = next
	s.runEffects(ctx, effects)
	return copyLines(s.lines)
}

// MoveToWishlist moves a cart line into the wishlist atomically with
// respect to other store operations.
func (s *Store) MoveToWishlist(ctx context.Context, productID uuid.UUID) ([]LineItem, []wishlist.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextLines, nextList, effects := MoveToWishlist(s.lines, s.saved, productID)
	s.lines = nextLines
	s.saved = nextList
	s.runEffects(ctx, effects)
	return copyLines(s.lines), copyEntries(s.saved)
}

// ToggleWishlist adds or removes the product from the wishlist and reports
// whether it was added.
func (s *Store) ToggleWishlist(ctx context.Context, p product.Product) ([]wishlist.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, added := wishlist.Toggle(s.saved, p)
	s.saved = next
	s.runEffects(ctx, []Effect{EffectPersistWishlist})
	return copyEntries(s.saved), added
}

// Clear empties the cart and persists the empty snapshot. Used after a
// successful checkout.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []LineItem{}
	s.runEffects(ctx, []Effect{EffectPersistCart})
}

func (s *Store) runEffects(ctx context.Context, effects []Effect) {
	for _, effect := range effects {
		switch effect {
		case EffectPersistCart:
			if err := s.snapshots.SaveCart(ctx, s.customerID, s.lines); err != nil {
				s.logg.Error(ctx, "failed to persist cart snapshot", err)
			}
		case EffectPersistWishlist:
			if err := s.snapshots.SaveWishlist(ctx, s.customerID, s.saved); err != nil {
				s.logg.Error(ctx, "failed to persist wishlist snapshot", err)
			}
		}
	}
}

// Manager hands out one store per customer, loading durable snapshots the
// first time a customer's store is requested.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	snapshots Snapshots
	logg      *logger.Logger
}

func NewManager(snapshots Snapshots, logg *logger.Logger) (*Manager, error) {
	if snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart manager requires a snapshot backend")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart manager requires a logger")
	}
	return &Manager{
		stores:    map[string]*Store{},
		snapshots: snapshots,
		logg:      logg,
	}, nil
}

// StoreFor returns the customer's store, creating it from the durable
// snapshots on first use. Snapshot read failures seed empty lists and are
// logged only.
func (m *Manager) StoreFor(ctx context.Context, customerID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[customerID]; ok {
		return store
	}

	lines, err := m.snapshots.LoadCart(ctx, customerID)
	if err != nil {
		m.logg.Error(ctx, "failed to load cart snapshot", err)
		lines = []LineItem{}
	}
	saved, err := m.snapshots.LoadWishlist(ctx, customerID)
	if err != nil {
		m.logg.Error(ctx, "failed to load wishlist snapshot", err)
		saved = []wishlist.Entry{}
	}

	store := &Store{
		customerID: customerID,
		lines:      lines,
		saved:      saved,
		snapshots:  m.snapshots,
		logg:       m.logg,
	}
	m.stores[customerID] = store
	return store
}

// Forget drops the in-memory store for a customer, forcing the next
// StoreFor to re-read the durable snapshots.
func (m *Manager) Forget(customerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, customerID)
}
