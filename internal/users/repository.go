package users

import (
	"context"
	"strings"
	"time"

	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists storefront customer accounts.
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

// Create inserts a new account row.
func (r *Repository) Create(ctx context.Context, user *models.WebsiteUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail loads an account by email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.WebsiteUser, error) {
	var row models.WebsiteUser
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID loads an account by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.WebsiteUser, error) {
	var row models.WebsiteUser
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateProfile writes the checkout contact fields. Email is never touched
// here; once an account exists its email is immutable.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	delete(fields, "email")
	return r.db.WithContext(ctx).
		Model(&models.WebsiteUser{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

// UpdatePasswordHash replaces the stored credential.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.WebsiteUser{}).
		Where("id = ?", id).
		Update("password_hash", hash).
		Error
}

// TouchLastLogin records a successful sign-in.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.WebsiteUser{}).
		Where("id = ?", id).
		Update("last_login_at", at).
		Error
}
