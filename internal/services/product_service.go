package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "contauno/internal/errors"
	"contauno/internal/ledger"
	"contauno/internal/models"
	"contauno/internal/pagination"
	"contauno/internal/store"
)

// productService handles the product catalogue.
type productService struct {
	db                *gorm.DB
	lowStockThreshold int64
}

// NewProductService creates a new ProductServicer.
func NewProductService(db *gorm.DB, lowStockThreshold int64) ProductServicer {
	return &productService{db: db, lowStockThreshold: lowStockThreshold}
}

func (s *productService) view(row models.Product) ProductView {
	p := store.ProductFromModel(row)
	return ProductView{
		Product:        p,
		Status:         p.Status(s.lowStockThreshold),
		InventoryValue: p.InventoryValue(),
	}
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "product name is required")
	}
	if in.Price.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "price cannot be negative")
	}
	return nil
}

// CreateProduct adds a product. The initial cost seeds the weighted-average
// cost of the initial stock.
func (s *productService) CreateProduct(userID string, in ProductInput) (*ProductView, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}
	if in.InitialStock < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial stock cannot be negative")
	}
	if in.InitialCost.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial cost cannot be negative")
	}

	product := &models.Product{
		UserID:              userID,
		Name:                strings.TrimSpace(in.Name),
		SKU:                 strings.TrimSpace(in.SKU),
		Category:            strings.TrimSpace(in.Category),
		Description:         in.Description,
		Price:               in.Price,
		Stock:               in.InitialStock,
		WeightedAverageCost: in.InitialCost,
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}

	v := s.view(*product)
	return &v, nil
}

func (s *productService) find(userID, productID string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("id = ? AND user_id = ?", productID, userID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return &product, nil
}

// GetProduct retrieves a product by ID for a specific user
func (s *productService) GetProduct(userID, productID string) (*ProductView, error) {
	product, err := s.find(userID, productID)
	if err != nil {
		return nil, err
	}
	v := s.view(*product)
	return &v, nil
}

// GetUserProducts lists products by name. search matches name, SKU or
// category, case-insensitively.
func (s *productService) GetUserProducts(userID, search string, page pagination.PageRequest) (*pagination.PageResponse[ProductView], error) {
	page.Defaults()

	base := func() *gorm.DB {
		q := s.db.Model(&models.Product{}).Where("user_id = ?", userID)
		if term := strings.TrimSpace(search); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
		}
		return q
	}

	var totalItems int64
	if err := base().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}

	var rows []models.Product
	if err := base().Scopes(pagination.Paginate(page)).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}

	views := make([]ProductView, len(rows))
	for i, row := range rows {
		views[i] = s.view(row)
	}
	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateProduct replaces the product metadata. Stock and cost are left to
// the inventory engine.
func (s *productService) UpdateProduct(userID, productID string, in ProductInput) (*ProductView, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}
	product, err := s.find(userID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(in.Name),
		"sku":         strings.TrimSpace(in.SKU),
		"category":    strings.TrimSpace(in.Category),
		"description": in.Description,
		"price":       in.Price,
	}
	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	product.Name = updates["name"].(string)
	product.SKU = updates["sku"].(string)
	product.Category = updates["category"].(string)
	product.Description = in.Description
	product.Price = in.Price

	v := s.view(*product)
	return &v, nil
}

// DeleteProduct soft-deletes a product. Transactions that reference it keep
// their item lines, but can no longer be edited or deleted.
func (s *productService) DeleteProduct(userID, productID string) error {
	product, err := s.find(userID, productID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(product).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return nil
}

// GetProductCategories returns the distinct non-empty product categories.
func (s *productService) GetProductCategories(userID string) ([]string, error) {
	categories := []string{}
	if err := s.db.Model(&models.Product{}).
		Where("user_id = ? AND category <> ''", userID).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}
	return categories, nil
}

type movementRow struct {
	TransactionID int64
	DateKey       string
	ProductID     string
	ProductName   string
	Type          string
	Quantity      int64
	UnitPrice     decimal.Decimal
}

// GetMovements returns inventory lines newest first, for one product or for
// all of them when productID is empty.
func (s *productService) GetMovements(userID, productID string) ([]Movement, error) {
	q := s.db.Table("transaction_items AS ti").
		Select("ti.transaction_id, t.date_key, ti.product_id, ti.product_name, t.type, ti.quantity, ti.unit_price").
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Where("t.user_id = ?", userID)
	if productID != "" {
		if _, err := s.find(userID, productID); err != nil {
			return nil, err
		}
		q = q.Where("ti.product_id = ?", productID)
	}

	var rows []movementRow
	if err := q.Order("t.date_key DESC, t.position DESC, ti.position ASC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseError, err)
	}

	out := make([]Movement, len(rows))
	for i, r := range rows {
		out[i] = Movement{
			TransactionID: r.TransactionID,
			Date:          r.DateKey,
			ProductID:     r.ProductID,
			ProductName:   r.ProductName,
			Type:          ledger.Type(r.Type),
			Quantity:      r.Quantity,
			UnitPrice:     r.UnitPrice,
			Total:         r.UnitPrice.Mul(decimal.NewFromInt(r.Quantity)),
		}
	}
	return out, nil
}
