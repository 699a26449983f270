package auth

import (
	"context"
	"time"

	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResetRepository persists single-use password reset tokens. Only the
// SHA-256 digest of a token is ever stored.
type ResetRepository struct {
	db *gorm.DB
}

func NewResetRepository(db *gorm.DB) *ResetRepository {
	return &ResetRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *ResetRepository) WithTx(tx *gorm.DB) *ResetRepository {
	return &ResetRepository{db: tx}
}

func (r *ResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	return r.db.WithContext(ctx).Create(reset).Error
}

// FindActiveByHash loads an unused, unexpired reset by token digest.
func (r *ResetRepository) FindActiveByHash(ctx context.Context, hash string, now time.Time) (*models.PasswordReset, error) {
	var row models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", hash).
		Where("used_at IS NULL").
		Where("expires_at > ?", now).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// MarkUsed burns the token so it cannot be replayed.
func (r *ResetRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.PasswordReset{}).
		Where("id = ?", id).
		Update("used_at", at).
		Error
}
