package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"       json:"id"`
	FullName      string     `gorm:"size:100;not null"          json:"full_name"`
	Email         *string    `gorm:"size:255;uniqueIndex"       json:"email"`
	Phone         *string    `gorm:"size:32;uniqueIndex"        json:"phone"`
	PasswordHash  string     `gorm:"not null"                   json:"-"`
	Role          Role       `gorm:"size:16;not null"           json:"role"`
	IsActive      bool       `gorm:"not null"                   json:"is_active"`
	EmailVerified bool       `gorm:"not null;default:false"     json:"email_verified"`
	GoogleID      *string    `gorm:"size:64;uniqueIndex"        json:"-"`
	FacebookID    *string    `gorm:"size:64;uniqueIndex"        json:"-"`
	Avatar        string     `gorm:"size:500"                   json:"avatar"`
	LastLogin     *time.Time `                                  json:"last_login"`
	CreatedAt     time.Time  `                                  json:"created_at"`
	UpdatedAt     time.Time  `                                  json:"updated_at"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
