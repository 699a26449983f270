package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists storefront orders and their line snapshots.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the order together with its items. The caller is expected
// to run this inside a transaction.
func (r *Repository) Create(ctx context.Context, order *models.WebsiteOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// ListByUser returns the customer's orders, newest first, items included.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WebsiteOrder, error) {
	var rows []models.WebsiteOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindByIDForUser loads one order with items, scoped to the owning user.
func (r *Repository) FindByIDForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.WebsiteOrder, error) {
	var row models.WebsiteOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CountOpenByUser counts orders that are not yet completed, delivered, or
// cancelled.
func (r *Repository) CountOpenByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WebsiteOrder{}).
		Where("user_id = ?", userID).
		Where("status NOT IN ?", closedStatuses()).
		Count(&count).
		Error
	return count, err
}

func closedStatuses() []string {
	return []string{
		models.OrderStatusCompleted,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	}
}

// NewOrderNumber builds a human-readable order reference. The random suffix
// keeps same-day orders distinct; the column's unique index backstops it.
func NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("WEB-%s-%s", now.Format("20060102"), hex.EncodeToString(suffix))
}
