package product

import (
	"context"
	"strings"

	"github.com/geolex-tech/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads catalog rows destined for the storefront. Every query is
// scoped to active rows flagged for the website.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) websiteScope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("show_on_website = ?", true)
}

// FetchAllActive returns every website item ordered by name.
func (r *Repository) FetchAllActive(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.websiteScope(ctx).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// FetchByCategory returns website items in the named category ordered by name.
func (r *Repository) FetchByCategory(ctx context.Context, category string) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.websiteScope(ctx).
		Where("category_name = ? OR category = ?", category, category).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// FetchByID loads one website item.
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var row models.InventoryItem
	if err := r.websiteScope(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FetchFeatured returns website items marked as featured ordered by name.
func (r *Repository) FetchFeatured(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.websiteScope(ctx).
		Where("is_featured = ?", true).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// Search matches the term against name, description, and search keywords.
func (r *Repository) Search(ctx context.Context, term string) ([]models.InventoryItem, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return r.FetchAllActive(ctx)
	}
	pattern := "%" + strings.ToLower(trimmed) + "%"
	var rows []models.InventoryItem
	err := r.websiteScope(ctx).
		Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ? OR LOWER(COALESCE(search_keywords, '')) LIKE ?",
			pattern, pattern, pattern,
		).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}
