package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the primary account model. Password and the password-reset code
// are stored hashed and never serialised.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:50;default:user" json:"role"`

	// Password-reset one-time code (SHA-256 digest) and its expiry.
	ResetCode       string     `gorm:"size:64" json:"-"`
	ResetCodeExpiry *time.Time `json:"-"`

	// Opaque refresh token digest; rotated on every refresh.
	RefreshToken       string     `gorm:"size:64;index" json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`

	Addresses []Address `gorm:"constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == "admin" }
