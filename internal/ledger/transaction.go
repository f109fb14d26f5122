// Package ledger holds the bookkeeping domain shared by the aggregation,
// valuation and insight packages: transactions, inventory line items,
// products, calendar days and the store contracts that persist them.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the direction of a transaction.
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// Valid reports whether t is one of the known directions.
func (t Type) Valid() bool {
	return t == Income || t == Expense
}

// Reserved category labels. Inventory transactions report one of the two
// sentinels; Uncategorized stands in for an empty category in breakdowns.
const (
	CategoryInventorySale     = "inventory-sale"
	CategoryInventoryPurchase = "inventory-purchase"
	Uncategorized             = "Uncategorized"
)

// IsReservedCategory reports whether name belongs to the system.
func IsReservedCategory(name string) bool {
	return name == CategoryInventorySale || name == CategoryInventoryPurchase
}

// Kind discriminates the two transaction variants.
type Kind string

const (
	KindStandard  Kind = "standard"
	KindInventory Kind = "inventory"
)

// Body is the variant part of a Transaction. It is either Standard or Inventory.
type Body interface {
	Kind() Kind
}

// Standard is a transaction entered directly with its own amount and category.
type Standard struct {
	Category    string
	Description string
	Amount      decimal.Decimal
}

// Kind implements Body.
func (Standard) Kind() Kind { return KindStandard }

// Inventory is a transaction whose amount is derived from product line items.
// Income inventory transactions are sales, expense ones are purchases.
type Inventory struct {
	Items []Item
}

// Kind implements Body.
func (Inventory) Kind() Kind { return KindInventory }

// Total sums the item subtotals.
func (inv Inventory) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range inv.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Item is one product line of an inventory transaction.
type Item struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal is quantity times unit price.
func (it Item) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// Transaction is a single financial movement stored under its calendar day.
type Transaction struct {
	ID         int64
	Date       time.Time
	Type       Type
	Provider   string
	ProviderID string
	Notes      string
	Body       Body
}

// IsInventory reports whether the transaction carries product line items.
func (t Transaction) IsInventory() bool {
	_, ok := t.Body.(Inventory)
	return ok
}

// Items returns the line items of an inventory transaction, nil otherwise.
func (t Transaction) Items() []Item {
	if inv, ok := t.Body.(Inventory); ok {
		return inv.Items
	}
	return nil
}

// Amount is the entered amount, or the item total for inventory transactions.
func (t Transaction) Amount() decimal.Decimal {
	switch b := t.Body.(type) {
	case Standard:
		return b.Amount
	case Inventory:
		return b.Total()
	}
	return decimal.Zero
}

// Category returns the label used for category breakdowns.
func (t Transaction) Category() string {
	switch b := t.Body.(type) {
	case Standard:
		return b.Category
	case Inventory:
		if t.Type == Income {
			return CategoryInventorySale
		}
		return CategoryInventoryPurchase
	}
	return ""
}

// Description returns the free-form description; inventory transactions
// describe themselves by item count.
func (t Transaction) Description() string {
	switch b := t.Body.(type) {
	case Standard:
		return b.Description
	case Inventory:
		label := "Inventory purchase"
		if t.Type == Income {
			label = "Inventory sale"
		}
		return fmt.Sprintf("%s - %d item(s)", label, len(b.Items))
	}
	return ""
}

// DateKey is the storage partition key of the transaction.
func (t Transaction) DateKey() string {
	return FormatDate(t.Date)
}

// Signed returns the amount with expenses negated.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount().Neg()
	}
	return t.Amount()
}
