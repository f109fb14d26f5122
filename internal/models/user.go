package models

import "time"

// User owns an isolated set of transactions, products, categories and templates.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	// RefreshTokenHash is the SHA-256 of the only refresh token still valid.
	RefreshTokenHash string `gorm:"size:64" json:"-"`
}
