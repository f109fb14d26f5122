package ledger

import (
	"sync/atomic"
	"time"
)

// TransactionStore persists transactions partitioned by calendar day.
type TransactionStore interface {
	// ReadTransactions returns every transaction whose day lies in r.
	ReadTransactions(r DateRange) ([]Transaction, error)
	// WriteTransactions replaces each listed day bucket with the given
	// transactions, in order. An empty bucket removes the day.
	WriteTransactions(buckets map[string][]Transaction) error
}

// ProductStore persists products keyed by id.
type ProductStore interface {
	ReadProducts() ([]Product, error)
	// WriteProducts replaces the stored record of each listed product.
	WriteProducts(products []Product) error
}

var lastID atomic.Int64

// NewTransactionID returns a creation-time based identifier, strictly
// increasing within the process.
func NewTransactionID() int64 {
	candidate := time.Now().UnixMilli()
	for {
		prev := lastID.Load()
		next := candidate
		if next <= prev {
			next = prev + 1
		}
		if lastID.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// GroupByDay splits transactions into day buckets keyed by DateKey,
// preserving their relative order.
func GroupByDay(txs []Transaction) map[string][]Transaction {
	out := make(map[string][]Transaction)
	for _, t := range txs {
		out[t.DateKey()] = append(out[t.DateKey()], t)
	}
	return out
}
