package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind mirrors the two ledger variants.
type TransactionKind string

const (
	TransactionKindStandard  TransactionKind = "standard"
	TransactionKindInventory TransactionKind = "inventory"
)

// Transaction is the stored row of a ledger transaction. Rows are grouped by
// (UserID, DateKey) and ordered by Position inside a day.
type Transaction struct {
	ID          int64             `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID      string            `gorm:"type:uuid;not null;index:idx_transactions_user_date,priority:1" json:"user_id"`
	DateKey     string            `gorm:"type:char(10);not null;index:idx_transactions_user_date,priority:2" json:"date"`
	Position    int               `gorm:"not null;default:0" json:"-"`
	Type        string            `gorm:"not null" json:"type"`
	Kind        TransactionKind   `gorm:"not null;default:standard" json:"kind"`
	Amount      decimal.Decimal   `gorm:"type:numeric(20,6);not null" json:"amount"`
	Category    string            `gorm:"index" json:"category"`
	Description string            `json:"description"`
	Provider    string            `json:"provider"`
	ProviderID  string            `json:"provider_id"`
	Notes       string            `json:"notes"`
	Items       []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TransactionItem is one product line of an inventory transaction.
type TransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	TransactionID int64           `gorm:"not null;index" json:"-"`
	Position      int             `gorm:"not null;default:0" json:"-"`
	ProductID     string          `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"unit_price"`
}
