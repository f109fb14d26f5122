package ledger

import (
	"github.com/shopspring/decimal"
)

// StockStatus classifies a product's quantity on hand.
type StockStatus string

const (
	InStock    StockStatus = "in_stock"
	LowStock   StockStatus = "low_stock"
	OutOfStock StockStatus = "out_of_stock"
)

// Product is an inventory item. Stock and WeightedAverageCost change only
// through the inventory engine.
type Product struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	SKU                 string          `json:"sku"`
	Category            string          `json:"category"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	Stock               int64           `json:"stock"`
	WeightedAverageCost decimal.Decimal `json:"weighted_average_cost"`
}

// Status reports the stock level against the low-stock threshold.
func (p Product) Status(lowThreshold int64) StockStatus {
	switch {
	case p.Stock <= 0:
		return OutOfStock
	case p.Stock <= lowThreshold:
		return LowStock
	}
	return InStock
}

// InventoryValue is the stock valued at weighted-average cost.
func (p Product) InventoryValue() decimal.Decimal {
	return p.WeightedAverageCost.Mul(decimal.NewFromInt(p.Stock))
}
