package store

import (
	"fmt"

	"contauno/internal/ledger"
	"contauno/internal/models"
)

// TransactionFromModel converts a stored row, with its items, into a ledger
// transaction.
func TransactionFromModel(row models.Transaction) (ledger.Transaction, error) {
	day, err := ledger.ParseDate(row.DateKey)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("transaction %d has malformed date %q: %w", row.ID, row.DateKey, err)
	}

	t := ledger.Transaction{
		ID:         row.ID,
		Date:       day,
		Type:       ledger.Type(row.Type),
		Provider:   row.Provider,
		ProviderID: row.ProviderID,
		Notes:      row.Notes,
	}
	if row.Kind == models.TransactionKindInventory {
		items := make([]ledger.Item, len(row.Items))
		for i, it := range row.Items {
			items[i] = ledger.Item{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
			}
		}
		t.Body = ledger.Inventory{Items: items}
	} else {
		t.Body = ledger.Standard{Category: row.Category, Description: row.Description, Amount: row.Amount}
	}
	return t, nil
}

// transactionToModel builds the row stored at position pos of its day.
func transactionToModel(userID string, pos int, t ledger.Transaction) models.Transaction {
	row := models.Transaction{
		ID:          t.ID,
		UserID:      userID,
		DateKey:     t.DateKey(),
		Position:    pos,
		Type:        string(t.Type),
		Kind:        models.TransactionKindStandard,
		Amount:      t.Amount(),
		Category:    t.Category(),
		Description: t.Description(),
		Provider:    t.Provider,
		ProviderID:  t.ProviderID,
		Notes:       t.Notes,
	}
	if t.IsInventory() {
		row.Kind = models.TransactionKindInventory
		for i, it := range t.Items() {
			row.Items = append(row.Items, models.TransactionItem{
				TransactionID: t.ID,
				Position:      i,
				ProductID:     it.ProductID,
				ProductName:   it.ProductName,
				Quantity:      it.Quantity,
				UnitPrice:     it.UnitPrice,
			})
		}
	}
	return row
}

// ProductFromModel converts a stored product.
func ProductFromModel(row models.Product) ledger.Product {
	return ledger.Product{
		ID:                  row.ID,
		Name:                row.Name,
		SKU:                 row.SKU,
		Category:            row.Category,
		Description:         row.Description,
		Price:               row.Price,
		Stock:               row.Stock,
		WeightedAverageCost: row.WeightedAverageCost,
	}
}
