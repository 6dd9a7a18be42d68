package models

import "time"

// Verification is a one-time code sent to a phone number.
type Verification struct {
	ID          uint      `gorm:"primaryKey"              json:"id"`
	PhoneNumber string    `gorm:"size:32;index;not null"  json:"phone_number"`
	OTP         string    `gorm:"size:6;not null"         json:"-"`
	ExpiresAt   time.Time `gorm:"not null"                json:"expires_at"`
	Verified    bool      `gorm:"not null;default:false"  json:"verified"`
	CreatedAt   time.Time `gorm:"index"                   json:"created_at"`
}

func AllModels() []any {
	return []any{&User{}, &RefreshToken{}, &Verification{}, &Product{}, &Order{}}
}
