package ledger

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// transactionView is the flat wire form of a Transaction.
type transactionView struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"`
	Type        Type            `json:"type"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Provider    string          `json:"provider,omitempty"`
	ProviderID  string          `json:"provider_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	IsInventory bool            `json:"is_inventory"`
	Items       []Item          `json:"items"`
}

// MarshalJSON renders the derived fields alongside the stored ones.
func (t Transaction) MarshalJSON() ([]byte, error) {
	v := transactionView{
		ID:          t.ID,
		Date:        t.DateKey(),
		Type:        t.Type,
		Amount:      t.Amount(),
		Category:    t.Category(),
		Description: t.Description(),
		Provider:    t.Provider,
		ProviderID:  t.ProviderID,
		Notes:       t.Notes,
		IsInventory: t.IsInventory(),
		Items:       t.Items(),
	}
	if t.Body != nil {
		v.Kind = t.Body.Kind()
	}
	if v.Items == nil {
		v.Items = []Item{}
	}
	return json.Marshal(v)
}
