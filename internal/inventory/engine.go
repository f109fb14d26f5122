// Package inventory maintains stock levels and moving weighted-average cost
// as inventory transactions are created, edited and deleted.
//
// The Engine works on an in-memory copy of the product set. Every multi-item
// operation records the steps it applied in a journal; when a later step
// fails the journal is unwound in reverse so the product set is left exactly
// as it was before the call.
package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	apperrors "contauno/internal/errors"
	"contauno/internal/ledger"
)

// CostScale is the number of decimal places kept for weighted-average cost.
const CostScale = 6

// Engine applies quantity and cost changes to a product set.
type Engine struct {
	products map[string]*ledger.Product
	original map[string]ledger.Product
}

// NewEngine takes a private copy of products.
func NewEngine(products []ledger.Product) *Engine {
	e := &Engine{
		products: make(map[string]*ledger.Product, len(products)),
		original: make(map[string]ledger.Product, len(products)),
	}
	for _, p := range products {
		cp := p
		e.products[p.ID] = &cp
		e.original[p.ID] = p
	}
	return e
}

// Product returns the current state of a product.
func (e *Engine) Product(id string) (ledger.Product, bool) {
	p, ok := e.products[id]
	if !ok {
		return ledger.Product{}, false
	}
	return *p, true
}

// Products returns the current state of every product, ordered by id.
func (e *Engine) Products() []ledger.Product {
	out := make([]ledger.Product, 0, len(e.products))
	for _, p := range e.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Changed returns the products whose stock or cost differ from the set the
// engine was built with, ordered by id.
func (e *Engine) Changed() []ledger.Product {
	var out []ledger.Product
	for _, p := range e.Products() {
		orig := e.original[p.ID]
		if orig.Stock != p.Stock || !orig.WeightedAverageCost.Equal(p.WeightedAverageCost) {
			out = append(out, p)
		}
	}
	return out
}

// AdjustStock applies a signed quantity change to one product. A positive
// delta with a unit cost blends that cost into the weighted average. A
// negative delta larger than the stock on hand fails and changes nothing.
func (e *Engine) AdjustStock(productID string, delta int64, unitCost *decimal.Decimal) error {
	p, ok := e.products[productID]
	if !ok {
		return apperrors.WithMessage(apperrors.ErrUnknownProduct,
			fmt.Sprintf("Product %s does not exist", productID))
	}

	if delta < 0 && -delta > p.Stock {
		return apperrors.WithMessage(apperrors.ErrInsufficientStock,
			fmt.Sprintf("Insufficient stock for %s: available %d, requested %d", p.Name, p.Stock, -delta))
	}

	if delta > 0 && unitCost != nil {
		p.WeightedAverageCost = blendCost(p.Stock, p.WeightedAverageCost, delta, *unitCost)
	}
	p.Stock += delta
	return nil
}

// blendCost computes the moving weighted average after receiving qty units
// at unitCost.
func blendCost(stock int64, cost decimal.Decimal, qty int64, unitCost decimal.Decimal) decimal.Decimal {
	total := stock + qty
	if total <= 0 {
		return unitCost
	}
	value := decimal.NewFromInt(stock).Mul(cost).Add(decimal.NewFromInt(qty).Mul(unitCost))
	return value.DivRound(decimal.NewFromInt(total), CostScale)
}

// Apply books a newly created transaction. Sales remove stock, purchases add
// stock at the item's unit price. All items succeed or none do.
func (e *Engine) Apply(t ledger.Transaction) error {
	var j journal
	if err := e.run(&j, effectsOf(t)); err != nil {
		e.unwind(&j)
		return err
	}
	return nil
}

// Reverse undoes the stock effect of a deleted transaction. Purchases are
// withdrawn without touching the weighted-average cost.
func (e *Engine) Reverse(t ledger.Transaction) error {
	var j journal
	if err := e.run(&j, reversalOf(t)); err != nil {
		e.unwind(&j)
		return err
	}
	return nil
}

// Replace swaps the effect of original for that of updated. If either half
// fails the product set is restored to its state before the call.
func (e *Engine) Replace(original, updated ledger.Transaction) error {
	var j journal
	if err := e.run(&j, reversalOf(original)); err != nil {
		e.unwind(&j)
		return err
	}
	if err := e.run(&j, effectsOf(updated)); err != nil {
		e.unwind(&j)
		return err
	}
	return nil
}

func (e *Engine) run(j *journal, effects []effect) error {
	for _, eff := range effects {
		before, ok := e.products[eff.productID]
		if !ok {
			return e.AdjustStock(eff.productID, eff.delta, eff.unitCost)
		}
		snapshot := step{
			productID: eff.productID,
			delta:     eff.delta,
			prevStock: before.Stock,
			prevCost:  before.WeightedAverageCost,
		}
		if err := e.AdjustStock(eff.productID, eff.delta, eff.unitCost); err != nil {
			return err
		}
		j.record(snapshot)
	}
	return nil
}

func (e *Engine) unwind(j *journal) {
	for i := len(j.steps) - 1; i >= 0; i-- {
		s := j.steps[i]
		p := e.products[s.productID]
		p.Stock = s.prevStock
		p.WeightedAverageCost = s.prevCost
	}
	j.steps = nil
}
