package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses as written by fulfillment staff. The storefront only reads
// them; CanEditAccountDetails depends on every order being settled.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// WebsiteOrder is a placed storefront order with a denormalized shipping
// profile snapshot, so later profile edits never rewrite order history.
type WebsiteOrder struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber    string             `gorm:"column:order_number;not null;uniqueIndex"`
	UserID         uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	Status         string             `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod  string             `gorm:"column:payment_method;not null;default:'Cash on Delivery'"`
	TotalAmount    decimal.Decimal    `gorm:"column:total_amount;type:numeric(12,2);not null"`
	FirstName      string             `gorm:"column:first_name;not null"`
	LastName       string             `gorm:"column:last_name;not null"`
	Email          string             `gorm:"column:email;not null"`
	Phone          string             `gorm:"column:phone;not null"`
	AlternatePhone *string            `gorm:"column:alternate_phone"`
	Address        string             `gorm:"column:address;not null"`
	City           string             `gorm:"column:city;not null"`
	PostalCode     string             `gorm:"column:postal_code;not null"`
	Notes          *string            `gorm:"column:notes"`
	Items          []WebsiteOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (WebsiteOrder) TableName() string {
	return "website_orders"
}

// WebsiteOrderItem snapshots one cart line at submission time.
type WebsiteOrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	Name      string          `gorm:"column:name;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (WebsiteOrderItem) TableName() string {
	return "website_order_items"
}
