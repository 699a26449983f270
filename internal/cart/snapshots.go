package cart

import (
	"context"
	"encoding/json"

	"github.com/geolex-tech/storefront-backend/internal/wishlist"
	pkgerrors "github.com/geolex-tech/storefront-backend/pkg/errors"
	redisclient "github.com/geolex-tech/storefront-backend/pkg/redis"
)

// RedisSnapshots stores each customer's cart and wishlist as JSON under
// fixed keys. Entries never expire; the cart survives restarts and devices.
type RedisSnapshots struct {
	client *redisclient.Client
}

func NewRedisSnapshots(client *redisclient.Client) (*RedisSnapshots, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart snapshots require a redis client")
	}
	return &RedisSnapshots{client: client}, nil
}

func (r *RedisSnapshots) LoadCart(ctx context.Context, customerID string) ([]LineItem, error) {
	raw, err := r.client.Get(ctx, r.client.CartSnapshotKey(customerID))
	if redisclient.IsNil(err) {
		return []LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []LineItem
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []LineItem{}
	}
	return lines, nil
}

func (r *RedisSnapshots) SaveCart(ctx context.Context, customerID string, lines []LineItem) error {
	if lines == nil {
		lines = []LineItem{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.client.CartSnapshotKey(customerID), payload, 0)
}

func (r *RedisSnapshots) LoadWishlist(ctx context.Context, customerID string) ([]wishlist.Entry, error) {
	raw, err := r.client.Get(ctx, r.client.WishlistSnapshotKey(customerID))
	if redisclient.IsNil(err) {
		return []wishlist.Entry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []wishlist.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []wishlist.Entry{}
	}
	return entries, nil
}

func (r *RedisSnapshots) SaveWishlist(ctx context.Context, customerID string, entries []wishlist.Entry) error {
	if entries == nil {
		entries = []wishlist.Entry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.client.WishlistSnapshotKey(customerID), payload, 0)
}
