package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountTypeCustomer is the only account type allowed to hold a storefront
// session. Staff accounts live in the same table but are rejected at sign-in.
const AccountTypeCustomer = "customer"

// WebsiteUser is a storefront customer identity plus the checkout profile
// fields collected during order placement.
type WebsiteUser struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash   string     `gorm:"column:password_hash;not null"`
	FirstName      string     `gorm:"column:first_name;not null"`
	LastName       string     `gorm:"column:last_name;not null"`
	Phone          *string    `gorm:"column:phone"`
	AlternatePhone *string    `gorm:"column:alternate_phone"`
	Address        *string    `gorm:"column:address"`
	City           *string    `gorm:"column:city"`
	PostalCode     *string    `gorm:"column:postal_code"`
	AccountType    string     `gorm:"column:account_type;not null;default:'customer'"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (WebsiteUser) TableName() string {
	return "website_users"
}
