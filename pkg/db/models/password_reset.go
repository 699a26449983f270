package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset stores a hashed single-use reset token. The plaintext token
// is returned to the caller once and never persisted.
type PasswordReset struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	TokenHash string     `gorm:"column:token_hash;not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	UsedAt    *time.Time `gorm:"column:used_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
