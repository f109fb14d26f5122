package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "contauno/internal/errors"
	"contauno/internal/ledger"
	"contauno/internal/pagination"
	"contauno/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// TransactionItemRequest is one inventory line. unit_price defaults to the
// product's sale price for income and its weighted-average cost for expense.
type TransactionItemRequest struct {
	ProductID   string           `json:"product_id" binding:"required,uuid"`
	ProductName string           `json:"product_name" binding:"max=200"`
	Quantity    int64            `json:"quantity" binding:"required,gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price" swaggertype:"string"`
}

// TransactionRequest represents the payload for creating or editing a
// transaction. kind "inventory", or items without a kind, selects the
// inventory variant; otherwise category, description and amount are used.
type TransactionRequest struct {
	Date        string                   `json:"date" binding:"required,date_key"`
	Type        ledger.Type              `json:"type" binding:"required,transaction_type"`
	Kind        ledger.Kind              `json:"kind" binding:"omitempty,oneof=standard inventory"`
	Category    string                   `json:"category" binding:"max=100"`
	Description string                   `json:"description" binding:"max=500"`
	Amount      decimal.Decimal          `json:"amount" swaggertype:"string"`
	Items       []TransactionItemRequest `json:"items" binding:"omitempty,dive"`
	Provider    string                   `json:"provider" binding:"max=200"`
	ProviderID  string                   `json:"provider_id" binding:"max=100"`
	Notes       string                   `json:"notes" binding:"max=2000"`
}

func (req TransactionRequest) toInput() (services.TransactionInput, error) {
	date, err := parseDate(req.Date, "date")
	if err != nil {
		return services.TransactionInput{}, err
	}
	in := services.TransactionInput{
		Date:        date,
		Type:        req.Type,
		Inventory:   req.Kind == ledger.KindInventory || (req.Kind == "" && len(req.Items) > 0),
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Provider:    req.Provider,
		ProviderID:  req.ProviderID,
		Notes:       req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.ItemInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return in, nil
}

func bindTransaction(c *gin.Context) (services.TransactionInput, error) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return services.TransactionInput{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return req.toInput()
}

func auditTransaction(t *ledger.Transaction) map[string]interface{} {
	changes := map[string]interface{}{
		"date":   t.DateKey(),
		"type":   t.Type,
		"amount": t.Amount().String(),
	}
	if t.IsInventory() {
		changes["items"] = t.Items()
	} else {
		changes["category"] = t.Category()
	}
	return changes
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record a standard or inventory transaction. Inventory sales and purchases move product stock and weighted-average cost; the whole transaction fails if any item cannot be applied.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} ledger.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Insufficient stock or unknown product"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in, err := bindTransaction(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", strconv.FormatInt(transaction.ID, 10), c.ClientIP(),
		auditTransaction(transaction))

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetUserTransactions handles the retrieval of all transactions for the authenticated user
// @Summary     List transactions
// @Description Get a paginated list of transactions, newest first, with optional filters
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       from_date query string false "Filter by start day (YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end day (YYYY-MM-DD)"
// @Param       type      query string false "Filter by transaction type (income, expense)"
// @Param       category  query string false "Filter by category label"
// @Success     200 {object} pagination.PageResponse[ledger.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetUserTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		d, err := parseDate(v, "from_date")
		if err != nil {
			return filter, err
		}
		filter.FromDate = &d
	}

	if v := c.Query("to_date"); v != "" {
		d, err := parseDate(v, "to_date")
		if err != nil {
			return filter, err
		}
		filter.ToDate = &d
	}

	if v := c.Query("type"); v != "" {
		txType := ledger.Type(v)
		if !txType.Valid() {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be income or expense")
		}
		filter.Type = &txType
	}

	filter.Category = c.Query("category")
	return filter, nil
}

// GetDayTransactions lists the transactions of one day in recorded order
// @Summary     Get a day's transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       date path string true "Day (YYYY-MM-DD)"
// @Success     200 {object} map[string][]ledger.Transaction "Transactions of the day"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/day/{date} [get]
func (h *TransactionHandler) GetDayTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	day, err := parseDate(c.Param("date"), "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	txs, err := h.transactionService.GetDayTransactions(userID, day)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// GetTransactionByID handles the retrieval of a specific transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} ledger.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parseTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransaction(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction handles editing an existing transaction
// @Summary     Update transaction
// @Description Replace a transaction. The stock effect of the old version is reversed before the new one is applied; a failed edit leaves everything unchanged. Changing the date moves the transaction to the end of the new day.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Transaction ID"
// @Param       request body TransactionRequest true "New transaction details"
// @Success     200 {object} ledger.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     422 {object} ErrorResponse "Insufficient stock or unknown product"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parseTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in, err := bindTransaction(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, id, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TRANSACTION", "transaction", strconv.FormatInt(id, 10), c.ClientIP(),
		auditTransaction(transaction))

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction and reverse its stock effect
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     422 {object} ErrorResponse "Stock already sold or unknown product"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parseTransactionID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TRANSACTION", "transaction", strconv.FormatInt(id, 10), c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
