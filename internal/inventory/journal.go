package inventory

import (
	"github.com/shopspring/decimal"

	"contauno/internal/ledger"
)

// effect is one quantity change requested by a transaction item.
type effect struct {
	productID string
	delta     int64
	unitCost  *decimal.Decimal
}

// step is an applied effect together with the state it replaced, which is
// its inverse.
type step struct {
	productID string
	delta     int64
	prevStock int64
	prevCost  decimal.Decimal
}

// journal lists applied steps in order.
type journal struct {
	steps []step
}

func (j *journal) record(s step) {
	j.steps = append(j.steps, s)
}

// effectsOf lists the changes booking t produces.
func effectsOf(t ledger.Transaction) []effect {
	items := t.Items()
	out := make([]effect, 0, len(items))
	for _, it := range items {
		if t.Type == ledger.Income {
			out = append(out, effect{productID: it.ProductID, delta: -it.Quantity})
			continue
		}
		cost := it.UnitPrice
		out = append(out, effect{productID: it.ProductID, delta: it.Quantity, unitCost: &cost})
	}
	return out
}

// reversalOf lists the changes that undo t. Cost is left as is.
func reversalOf(t ledger.Transaction) []effect {
	items := t.Items()
	out := make([]effect, 0, len(items))
	for _, it := range items {
		delta := it.Quantity
		if t.Type == ledger.Expense {
			delta = -delta
		}
		out = append(out, effect{productID: it.ProductID, delta: delta})
	}
	return out
}
