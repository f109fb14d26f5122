package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"contauno/internal/insights"
	"contauno/internal/kpi"
	"contauno/internal/ledger"
	"contauno/internal/models"
	"contauno/internal/pagination"
	"contauno/internal/period"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ItemInput is one requested inventory line. A nil UnitPrice is filled from
// the product: its sale price for income, its weighted-average cost for
// expense.
type ItemInput struct {
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   *decimal.Decimal
}

// TransactionInput carries the fields of a create or edit request. Setting
// Inventory selects the inventory variant, which ignores Category,
// Description and Amount.
type TransactionInput struct {
	Date        time.Time
	Type        ledger.Type
	Inventory   bool
	Category    string
	Description string
	Amount      decimal.Decimal
	Items       []ItemInput
	Provider    string
	ProviderID  string
	Notes       string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *ledger.Type
	Category string
}

// TransactionServicer defines the contract for bookkeeping transactions.
// Mutations run the inventory engine and persist inside one database
// transaction.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*ledger.Transaction, error)
	GetTransaction(userID string, id int64) (*ledger.Transaction, error)
	GetDayTransactions(userID string, day time.Time) ([]ledger.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[ledger.Transaction], error)
	UpdateTransaction(ctx context.Context, userID string, id int64, in TransactionInput) (*ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, userID string, id int64) error
}

// ProductInput carries product metadata. InitialStock and InitialCost are
// only read on creation.
type ProductInput struct {
	Name         string
	SKU          string
	Category     string
	Description  string
	Price        decimal.Decimal
	InitialStock int64
	InitialCost  decimal.Decimal
}

// ProductView is a product with its derived stock figures.
type ProductView struct {
	ledger.Product
	Status         ledger.StockStatus `json:"status"`
	InventoryValue decimal.Decimal    `json:"inventory_value"`
}

// Movement is one inventory line as seen from a product.
type Movement struct {
	TransactionID int64           `json:"transaction_id"`
	Date          string          `json:"date"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Type          ledger.Type     `json:"type"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
}

// ProductServicer defines the contract for product catalogue operations.
// Stock and cost are owned by the inventory engine and never set here after
// creation.
type ProductServicer interface {
	CreateProduct(userID string, in ProductInput) (*ProductView, error)
	GetProduct(userID, productID string) (*ProductView, error)
	GetUserProducts(userID, search string, page pagination.PageRequest) (*pagination.PageResponse[ProductView], error)
	UpdateProduct(userID, productID string, in ProductInput) (*ProductView, error)
	DeleteProduct(userID, productID string) error
	GetProductCategories(userID string) ([]string, error)
	GetMovements(userID, productID string) ([]Movement, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID string, categoryType models.CategoryType, name string) (*models.Category, error)
	GetUserCategories(userID string, categoryType models.CategoryType) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	RenameCategory(userID, categoryID, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TemplateServicer defines the contract for saved transaction shapes.
type TemplateServicer interface {
	CreateTemplate(userID, name string, in TransactionInput) (*models.Template, error)
	GetUserTemplates(userID string) ([]models.Template, error)
	GetTemplateByID(userID, templateID string) (*models.Template, error)
	RenameTemplate(userID, templateID, name string) (*models.Template, error)
	DeleteTemplate(userID, templateID string) error
}

// DayBalance is the ledger of a single day.
type DayBalance struct {
	Date         string               `json:"date"`
	Transactions []ledger.Transaction `json:"transactions"`
	Summary      kpi.Summary          `json:"summary"`
}

// CalendarMonth lists the per-day totals of the days with activity.
type CalendarMonth struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Days    []kpi.DayTotals `json:"days"`
	Summary kpi.Summary     `json:"summary"`
}

// WeekBalance is a Monday week. From and To clip it to the month for
// display; Transactions and Summary cover the whole week.
type WeekBalance struct {
	Start        string               `json:"start"`
	End          string               `json:"end"`
	From         string               `json:"from"`
	To           string               `json:"to"`
	Transactions []ledger.Transaction `json:"transactions"`
	Summary      kpi.Summary          `json:"summary"`
}

// WeeklyBalance splits a month into Monday weeks.
type WeeklyBalance struct {
	Year    int           `json:"year"`
	Month   time.Month    `json:"month"`
	Weeks   []WeekBalance `json:"weeks"`
	Summary kpi.Summary   `json:"summary"`
}

// MonthlyBalance splits a year into its twelve months.
type MonthlyBalance struct {
	Year    int            `json:"year"`
	Months  []period.Month `json:"months"`
	Summary kpi.Summary    `json:"summary"`
}

// MonthlyReport is the summary and full ledger of one month.
type MonthlyReport struct {
	Year         int                  `json:"year"`
	Month        time.Month           `json:"month"`
	Summary      kpi.Summary          `json:"summary"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// BalanceServicer defines the contract for period balances.
type BalanceServicer interface {
	GetDayBalance(userID string, day time.Time) (*DayBalance, error)
	GetCalendar(userID string, month time.Month, year int) (*CalendarMonth, error)
	GetWeeklyBalance(userID string, month time.Month, year int) (*WeeklyBalance, error)
	GetMonthlyBalance(userID string, year int) (*MonthlyBalance, error)
	GetAnnualBalance(userID string) ([]period.Year, error)
	GetMonthlyReport(userID string, month time.Month, year int) (*MonthlyReport, error)
}

// AnalysisReport is the monthly KPI and insight report.
type AnalysisReport struct {
	Year              int                 `json:"year"`
	Month             time.Month          `json:"month"`
	Summary           kpi.Summary         `json:"summary"`
	ExpenseRatio      *float64            `json:"expense_ratio"`
	BestDay           *kpi.DayNet         `json:"best_day"`
	TopIncome         []kpi.CategoryShare `json:"top_income"`
	TopExpense        []kpi.CategoryShare `json:"top_expense"`
	IncomeCategories  []kpi.CategoryShare `json:"income_categories"`
	ExpenseCategories []kpi.CategoryShare `json:"expense_categories"`
	DailyFlow         []kpi.DayTotals     `json:"daily_flow"`
	IncomeChange      kpi.Comparison      `json:"income_change"`
	ExpenseChange     kpi.Comparison      `json:"expense_change"`
	BalanceChange     kpi.Comparison      `json:"balance_change"`
	Insights          insights.Report     `json:"insights"`
}

// AnalysisServicer defines the contract for the monthly analysis report.
type AnalysisServicer interface {
	GetReport(ctx context.Context, userID string, month time.Month, year int) (*AnalysisReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
