package models

import "github.com/shopspring/decimal"

// Product is an inventory item. Stock and WeightedAverageCost are written only
// after the inventory engine accepted a change.
type Product struct {
	Base
	UserID              string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                string          `gorm:"not null" json:"name"`
	SKU                 string          `gorm:"index" json:"sku"`
	Category            string          `json:"category"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"price"`
	Stock               int64           `gorm:"not null;default:0" json:"stock"`
	WeightedAverageCost decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0" json:"weighted_average_cost"`
}
