package models

import "github.com/shopspring/decimal"

// Template is a saved standard transaction shape.
type Template struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string          `gorm:"not null" json:"name"`
	Type        string          `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Provider    string          `json:"provider"`
	ProviderID  string          `json:"provider_id"`
	Notes       string          `json:"notes"`
}
