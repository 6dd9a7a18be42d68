package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken stores the sha256 of an issued refresh token.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"             json:"id"`
	Token     string    `gorm:"size:64;uniqueIndex"    json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	JTI       string    `gorm:"size:64;uniqueIndex"    json:"jti"`
	ExpiresAt time.Time `gorm:"not null"               json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false" json:"revoked"`
	CreatedAt time.Time `                              json:"created_at"`
}
