package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/geolex-tech/storefront-backend/internal/wishlist"
	"github.com/geolex-tech/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySnapshots round-trips state through JSON the way the redis backend
// does, so snapshot fidelity is covered without a live server.
type memorySnapshots struct {
	mu        sync.Mutex
	carts     map[string][]byte
	wishlists map[string][]byte
	loadErr   error
	saveErr   error
	saves     int
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{
		carts:     map[string][]byte{},
		wishlists: map[string][]byte{},
	}
}

func (m *memorySnapshots) LoadCart(_ context.Context, customerID string) ([]LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	raw, ok := m.carts[customerID]
	if !ok {
		return []LineItem{}, nil
	}
	var lines []LineItem
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (m *memorySnapshots) SaveCart(_ context.Context, customerID string, lines []LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	m.carts[customerID] = raw
	return nil
}

func (m *memorySnapshots) LoadWishlist(_ context.Context, customerID string) ([]wishlist.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	raw, ok := m.wishlists[customerID]
	if !ok {
		return []wishlist.Entry{}, nil
	}
	var entries []wishlist.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *memorySnapshots) SaveWishlist(_ context.Context, customerID string, entries []wishlist.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	m.wishlists[customerID] = raw
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-test", Level: zerolog.ErrorLevel})
}

func TestStoreRoundTripsThroughSnapshots(t *testing.T) {
	ctx := context.Background()
	snaps := newMemorySnapshots()
	manager, err := NewManager(snaps, testLogger())
	require.NoError(t, err)

	p := stockedProduct("tower", 55000)
	store := manager.StoreFor(ctx, "cust-1")
	store.Add(ctx, p)
	store.UpdateQuantity(ctx, p.ID, 3)
	store.ToggleWishlist(ctx, stockedProduct("fan", 900))

	// A fresh store must rebuild identical state from the snapshots.
	manager.Forget("cust-1")
	reloaded := manager.StoreFor(ctx, "cust-1")

	lines := reloaded.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, p.ID, lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(decimal.NewFromInt(55000)))

	saved := reloaded.Wishlist()
	require.Len(t, saved, 1)
	assert.Equal(t, "fan", saved[0].Name)
}

func TestStoreSurvivesSnapshotWriteFailures(t *testing.T) {
	ctx := context.Background()
	snaps := newMemorySnapshots()
	snaps.saveErr = errors.New("redis down")
	manager, err := NewManager(snaps, testLogger())
	require.NoError(t, err)

	p := stockedProduct("bracket", 300)
	store := manager.StoreFor(ctx, "cust-2")
	lines := store.Add(ctx, p)

	// In-memory state stays authoritative even when persistence fails.
	require.Len(t, lines, 1)
	assert.Len(t, store.Lines(), 1)
	assert.Positive(t, snaps.saves)
}

func TestStoreSeedsEmptyOnLoadFailure(t *testing.T) {
	ctx := context.Background()
	snaps := newMemorySnapshots()
	snaps.loadErr = errors.New("redis down")
	manager, err := NewManager(snaps, testLogger())
	require.NoError(t, err)

	store := manager.StoreFor(ctx, "cust-3")
	assert.Empty(t, store.Lines())
	assert.Empty(t, store.Wishlist())
}

func TestStoreMoveAndClear(t *testing.T) {
	ctx := context.Background()
	snaps := newMemorySnapshots()
	manager, err := NewManager(snaps, testLogger())
	require.NoError(t, err)

	a := stockedProduct("psu", 9000)
	b := stockedProduct("cable", 400)
	store := manager.StoreFor(ctx, "cust-4")
	store.Add(ctx, a)
	store.Add(ctx, b)

	lines, saved := store.MoveToWishlist(ctx, a.ID)
	require.Len(t, lines, 1)
	require.Len(t, saved, 1)
	assert.Equal(t, a.ID, saved[0].ProductID)

	store.Clear(ctx)
	assert.Empty(t, store.Lines())
	assert.Len(t, store.Wishlist(), 1, "clear leaves the wishlist alone")
}

func TestManagerReusesStores(t *testing.T) {
	ctx := context.Background()
	manager, err := NewManager(newMemorySnapshots(), testLogger())
	require.NoError(t, err)

	first := manager.StoreFor(ctx, "cust-5")
	second := manager.StoreFor(ctx, "cust-5")
	assert.Same(t, first, second)

	other := manager.StoreFor(ctx, "cust-6")
	assert.NotSame(t, first, other)
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	manager, err := NewManager(newMemorySnapshots(), testLogger())
	require.NoError(t, err)

	p := stockedProduct("sticker", 50)
	store := manager.StoreFor(ctx, "cust-7")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add(ctx, p)
		}()
	}
	wg.Wait()

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 20, lines[0].Quantity)
	assert.NotEqual(t, uuid.Nil, lines[0].ProductID)
}
