package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a catalog row as the merchandising side maintains it.
// Pricing, category and specifications columns are nullable because the
// upstream inventory tool does not enforce them.
type InventoryItem struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string           `gorm:"column:name;not null"`
	Description    *string          `gorm:"column:description"`
	SellingPrice   *decimal.Decimal `gorm:"column:selling_price;type:numeric(12,2)"`
	SalePrice      *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	ImageURL       *string          `gorm:"column:image_url"`
	CategoryName   *string          `gorm:"column:category_name"`
	Category       *string          `gorm:"column:category"`
	Specifications *string          `gorm:"column:specifications"`
	CurrentStock   int              `gorm:"column:current_stock;not null;default:0"`
	IsActive       bool             `gorm:"column:is_active;not null;default:true"`
	ShowOnWebsite  bool             `gorm:"column:show_on_website;not null;default:false"`
	IsFeatured     bool             `gorm:"column:is_featured;not null;default:false"`
	SKU            *string          `gorm:"column:sku"`
	UnitOfMeasure  *string          `gorm:"column:unit_of_measure"`
	SearchKeywords *string          `gorm:"column:search_keywords"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
