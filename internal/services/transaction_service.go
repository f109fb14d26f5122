package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	apperrors "contauno/internal/errors"
	"contauno/internal/events"
	"contauno/internal/inventory"
	"contauno/internal/ledger"
	"contauno/internal/logger"
	"contauno/internal/models"
	"contauno/internal/pagination"
	"contauno/internal/store"
)

var tracer = otel.Tracer("contauno/services")

// transactionService handles transaction-related business logic.
type transactionService struct {
	db                *gorm.DB
	publisher         events.Publisher
	lowStockThreshold int64
}

// NewTransactionService creates a new TransactionServicer. Events are
// published to publisher once the change is committed.
func NewTransactionService(db *gorm.DB, publisher events.Publisher, lowStockThreshold int64) TransactionServicer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &transactionService{db: db, publisher: publisher, lowStockThreshold: lowStockThreshold}
}

// buildTransaction turns a request into a ledger transaction. Item prices
// left empty are zero until resolveItems fills them.
func buildTransaction(id int64, in TransactionInput) ledger.Transaction {
	t := ledger.Transaction{
		ID:         id,
		Type:       in.Type,
		Provider:   strings.TrimSpace(in.Provider),
		ProviderID: strings.TrimSpace(in.ProviderID),
		Notes:      in.Notes,
	}
	if !in.Date.IsZero() {
		t.Date = ledger.Day(in.Date)
	}

	if !in.Inventory {
		t.Body = ledger.Standard{
			Category:    strings.TrimSpace(in.Category),
			Description: strings.TrimSpace(in.Description),
			Amount:      in.Amount,
		}
		return t
	}

	items := make([]ledger.Item, len(in.Items))
	for i, req := range in.Items {
		items[i] = ledger.Item{
			ProductID:   req.ProductID,
			ProductName: req.ProductName,
			Quantity:    req.Quantity,
		}
		if req.UnitPrice != nil {
			items[i].UnitPrice = *req.UnitPrice
		}
	}
	t.Body = ledger.Inventory{Items: items}
	return t
}

// resolveItems fills defaulted unit prices and product names from the
// engine's view of the products. Unknown products are left for the engine
// to reject.
func resolveItems(t *ledger.Transaction, in TransactionInput, engine *inventory.Engine) {
	inv, ok := t.Body.(ledger.Inventory)
	if !ok {
		return
	}
	for i, req := range in.Items {
		p, found := engine.Product(req.ProductID)
		if !found {
			continue
		}
		if req.UnitPrice == nil {
			if t.Type == ledger.Income {
				inv.Items[i].UnitPrice = p.Price
			} else {
				inv.Items[i].UnitPrice = p.WeightedAverageCost
			}
		}
		if inv.Items[i].ProductName == "" {
			inv.Items[i].ProductName = p.Name
		}
	}
	t.Body = inv
}

// mutation is the state shared by the three write paths while their
// database transaction is open.
type mutation struct {
	store  *store.Store
	engine *inventory.Engine
	before map[string]ledger.Product
}

func openMutation(tx *gorm.DB, userID string) (*mutation, error) {
	st := store.New(tx, userID)
	products, err := st.ReadProducts()
	if err != nil {
		return nil, err
	}
	before := make(map[string]ledger.Product, len(products))
	for _, p := range products {
		before[p.ID] = p
	}
	return &mutation{store: st, engine: inventory.NewEngine(products), before: before}, nil
}

// commit persists the touched day buckets and every product the engine
// changed.
func (m *mutation) commit(buckets map[string][]ledger.Transaction) ([]ledger.Product, error) {
	if err := m.store.WriteTransactions(buckets); err != nil {
		return nil, err
	}
	changed := m.engine.Changed()
	if len(changed) > 0 {
		if err := m.store.WriteProducts(changed); err != nil {
			return nil, err
		}
	}
	return changed, nil
}

// CreateTransaction books a new transaction at the end of its day.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*ledger.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionService.CreateTransaction")
	defer span.End()

	t := buildTransaction(ledger.NewTransactionID(), in)
	if err := ledger.Validate(t); err != nil {
		return nil, s.reject(span, "create", userID, err)
	}
	span.SetAttributes(attribute.Int64("transaction.id", t.ID), attribute.Bool("transaction.inventory", t.IsInventory()))

	var changed []ledger.Product
	var before map[string]ledger.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := openMutation(tx, userID)
		if err != nil {
			return err
		}
		before = m.before

		resolveItems(&t, in, m.engine)
		if err := m.engine.Apply(t); err != nil {
			return err
		}

		day, err := m.store.ReadDay(t.Date)
		if err != nil {
			return err
		}
		changed, err = m.commit(map[string][]ledger.Transaction{t.DateKey(): append(day, t)})
		return err
	})
	if err != nil {
		return nil, s.reject(span, "create", userID, err)
	}

	s.publish(ctx, events.New(events.TransactionCreated, userID, t))
	s.publishLowStock(ctx, userID, before, changed)
	return &t, nil
}

// GetTransaction retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransaction(userID string, id int64) (*ledger.Transaction, error) {
	t, err := store.New(s.db, userID).FindTransaction(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetDayTransactions returns one day bucket in booking order.
func (s *transactionService) GetDayTransactions(userID string, day time.Time) ([]ledger.Transaction, error) {
	return store.New(s.db, userID).ReadDay(ledger.Day(day))
}

// GetUserTransactions retrieves a paginated, filtered list of transactions,
// newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[ledger.Transaction], error) {
	page.Defaults()

	base := func() *gorm.DB {
		return applyTransactionFilters(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)
	}

	var totalItems int64
	if err := base().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}

	var rows []models.Transaction
	if err := base().Scopes(pagination.Paginate(page)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("date_key DESC, position DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}

	txs := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := store.TransactionFromModel(row)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
		}
		txs = append(txs, t)
	}

	result := pagination.NewPageResponse(txs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date_key >= ?", ledger.FormatDate(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date_key <= ?", ledger.FormatDate(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", string(*f.Type))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

// UpdateTransaction replaces a transaction. The edit may move it to another
// day, where it is appended, and may switch between variants.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID string, id int64, in TransactionInput) (*ledger.Transaction, error) {
	ctx, span := tracer.Start(ctx, "TransactionService.UpdateTransaction",
		trace.WithAttributes(attribute.Int64("transaction.id", id)))
	defer span.End()

	updated := buildTransaction(id, in)
	if err := ledger.Validate(updated); err != nil {
		return nil, s.reject(span, "update", userID, err)
	}

	var changed []ledger.Product
	var before map[string]ledger.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := openMutation(tx, userID)
		if err != nil {
			return err
		}
		before = m.before

		original, err := m.store.FindTransaction(id)
		if err != nil {
			return err
		}
		resolveItems(&updated, in, m.engine)
		if err := m.engine.Replace(original, updated); err != nil {
			return err
		}

		oldDay, err := m.store.ReadDay(original.Date)
		if err != nil {
			return err
		}
		buckets := map[string][]ledger.Transaction{}
		if original.DateKey() == updated.DateKey() {
			buckets[original.DateKey()] = replaceInDay(oldDay, updated)
		} else {
			newDay, err := m.store.ReadDay(updated.Date)
			if err != nil {
				return err
			}
			buckets[original.DateKey()] = removeFromDay(oldDay, id)
			buckets[updated.DateKey()] = append(newDay, updated)
		}
		changed, err = m.commit(buckets)
		return err
	})
	if err != nil {
		return nil, s.reject(span, "update", userID, err)
	}

	s.publish(ctx, events.New(events.TransactionUpdated, userID, updated))
	s.publishLowStock(ctx, userID, before, changed)
	return &updated, nil
}

// DeleteTransaction removes a transaction and undoes its stock effect.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, id int64) error {
	ctx, span := tracer.Start(ctx, "TransactionService.DeleteTransaction",
		trace.WithAttributes(attribute.Int64("transaction.id", id)))
	defer span.End()

	var deleted ledger.Transaction
	var changed []ledger.Product
	var before map[string]ledger.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		m, err := openMutation(tx, userID)
		if err != nil {
			return err
		}
		before = m.before

		deleted, err = m.store.FindTransaction(id)
		if err != nil {
			return err
		}
		if err := m.engine.Reverse(deleted); err != nil {
			return err
		}

		day, err := m.store.ReadDay(deleted.Date)
		if err != nil {
			return err
		}
		changed, err = m.commit(map[string][]ledger.Transaction{deleted.DateKey(): removeFromDay(day, id)})
		return err
	})
	if err != nil {
		return s.reject(span, "delete", userID, err)
	}

	s.publish(ctx, events.New(events.TransactionDeleted, userID, map[string]interface{}{
		"id":   strconv.FormatInt(deleted.ID, 10),
		"date": deleted.DateKey(),
	}))
	s.publishLowStock(ctx, userID, before, changed)
	return nil
}

func replaceInDay(day []ledger.Transaction, t ledger.Transaction) []ledger.Transaction {
	out := make([]ledger.Transaction, len(day))
	for i, existing := range day {
		if existing.ID == t.ID {
			out[i] = t
		} else {
			out[i] = existing
		}
	}
	return out
}

func removeFromDay(day []ledger.Transaction, id int64) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(day))
	for _, existing := range day {
		if existing.ID != id {
			out = append(out, existing)
		}
	}
	return out
}

// reject records a failed mutation on the span and logs client-side
// rejections. It returns err unchanged.
func (s *transactionService) reject(span trace.Span, op, userID string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.StatusCode < 500 {
		logger.Get().Infow("transaction rejected",
			"op", op,
			"user_id", userID,
			"code", appErr.Code,
			"reason", appErr.Message,
		)
	}
	return err
}

func (s *transactionService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.Get().Warnw("failed to publish event", "event", e.Name, "user_id", e.UserID, "error", err)
	}
}

// publishLowStock announces products whose stock status left in_stock, or
// moved further down, with this change.
func (s *transactionService) publishLowStock(ctx context.Context, userID string, before map[string]ledger.Product, changed []ledger.Product) {
	for _, p := range changed {
		status := p.Status(s.lowStockThreshold)
		if status == ledger.InStock || status == before[p.ID].Status(s.lowStockThreshold) {
			continue
		}
		s.publish(ctx, events.New(events.ProductLowStock, userID, map[string]interface{}{
			"product_id": p.ID,
			"name":       p.Name,
			"stock":      p.Stock,
			"status":     status,
		}))
	}
}
