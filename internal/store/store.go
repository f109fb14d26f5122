// Package store persists ledger data with gorm. A Store is bound to one user,
// which gives every user an isolated transaction and product collection.
package store

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "contauno/internal/errors"
	"contauno/internal/ledger"
	"contauno/internal/models"
)

// Store implements ledger.TransactionStore and ledger.ProductStore.
type Store struct {
	db     *gorm.DB
	userID string
}

var (
	_ ledger.TransactionStore = (*Store)(nil)
	_ ledger.ProductStore     = (*Store)(nil)
)

// New binds a store to db and userID. Pass a transaction handle to make
// several writes atomic.
func New(db *gorm.DB, userID string) *Store {
	return &Store{db: db, userID: userID}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// ReadTransactions returns the user's transactions in r, ordered by day and
// position within the day.
func (s *Store) ReadTransactions(r ledger.DateRange) ([]ledger.Transaction, error) {
	q := s.db.Where("user_id = ?", s.userID)
	if !r.From.IsZero() {
		q = q.Where("date_key >= ?", ledger.FormatDate(r.From))
	}
	if !r.To.IsZero() {
		q = q.Where("date_key <= ?", ledger.FormatDate(r.To))
	}

	var rows []models.Transaction
	if err := q.Preload("Items", orderedItems).Order("date_key ASC, position ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return toLedger(rows)
}

// ReadDay returns the bucket of one calendar day.
func (s *Store) ReadDay(day time.Time) ([]ledger.Transaction, error) {
	return s.ReadTransactions(ledger.DateRange{From: day, To: day})
}

// FindTransaction looks a transaction up by id.
func (s *Store) FindTransaction(id int64) (ledger.Transaction, error) {
	var row models.Transaction
	err := s.db.Preload("Items", orderedItems).
		Where("id = ? AND user_id = ?", id, s.userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ledger.Transaction{}, apperrors.ErrTransactionNotFound
		}
		return ledger.Transaction{}, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return TransactionFromModel(row)
}

// WriteTransactions replaces each listed day bucket. Transactions must carry
// the date of the bucket they are listed under. Every listed day is cleared
// before any row is inserted, so a transaction may move between buckets in
// one call.
func (s *Store) WriteTransactions(buckets map[string][]ledger.Transaction) error {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			if err := s.clearDay(tx, key); err != nil {
				return err
			}
		}
		for _, key := range keys {
			if err := s.insertDay(tx, key, buckets[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) clearDay(tx *gorm.DB, key string) error {
	var ids []int64
	if err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND date_key = ?", s.userID, key).
		Pluck("id", &ids).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("transaction_id IN ?", ids).Delete(&models.TransactionItem{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Transaction{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return nil
}

func (s *Store) insertDay(tx *gorm.DB, key string, bucket []ledger.Transaction) error {
	if len(bucket) == 0 {
		return nil
	}

	rows := make([]models.Transaction, len(bucket))
	for i, t := range bucket {
		if t.DateKey() != key {
			return apperrors.Wrap(apperrors.ErrInternalServer,
				fmt.Errorf("transaction %d dated %s listed under %s", t.ID, t.DateKey(), key))
		}
		rows[i] = transactionToModel(s.userID, i, t)
	}
	if err := tx.Create(&rows).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return nil
}

// ReadProducts returns the user's products ordered by name.
func (s *Store) ReadProducts() ([]ledger.Product, error) {
	var rows []models.Product
	if err := s.db.Where("user_id = ?", s.userID).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	out := make([]ledger.Product, len(rows))
	for i, row := range rows {
		out[i] = ProductFromModel(row)
	}
	return out, nil
}

// WriteProducts replaces the stored fields of each listed product, creating
// the ones that do not exist yet.
func (s *Store) WriteProducts(products []ledger.Product) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND user_id = ?", p.ID, s.userID).
				Updates(map[string]interface{}{
					"name":                  p.Name,
					"sku":                   p.SKU,
					"category":              p.Category,
					"description":           p.Description,
					"price":                 p.Price,
					"stock":                 p.Stock,
					"weighted_average_cost": p.WeightedAverageCost,
				})
			if res.Error != nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, res.Error)
			}
			if res.RowsAffected > 0 {
				continue
			}
			row := models.Product{
				Base:                models.Base{ID: p.ID},
				UserID:              s.userID,
				Name:                p.Name,
				SKU:                 p.SKU,
				Category:            p.Category,
				Description:         p.Description,
				Price:               p.Price,
				Stock:               p.Stock,
				WeightedAverageCost: p.WeightedAverageCost,
			}
			if err := tx.Create(&row).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrDatabaseError, err)
			}
		}
		return nil
	})
}

func toLedger(rows []models.Transaction) ([]ledger.Transaction, error) {
	out := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := TransactionFromModel(row)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
		}
		out = append(out, t)
	}
	return out, nil
}
