package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "contauno/internal/errors"
	"contauno/internal/ledger"
	"contauno/internal/services"
)

// TemplateHandler handles saved transaction templates.
type TemplateHandler struct {
	templateService    services.TemplateServicer
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService services.TemplateServicer, transactionService services.TransactionServicer, auditService services.AuditServicer) *TemplateHandler {
	return &TemplateHandler{
		templateService:    templateService,
		transactionService: transactionService,
		auditService:       auditService,
	}
}

// CreateTemplateRequest is the shape of a standard transaction saved under a name.
type CreateTemplateRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Type        ledger.Type     `json:"type" binding:"required,transaction_type"`
	Category    string          `json:"category" binding:"max=100"`
	Description string          `json:"description" binding:"max=500"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Provider    string          `json:"provider" binding:"max=200"`
	ProviderID  string          `json:"provider_id" binding:"max=100"`
	Notes       string          `json:"notes" binding:"max=2000"`
}

// RenameTemplateRequest represents the payload for renaming a template.
type RenameTemplateRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ApplyTemplateRequest picks the day the templated transaction is recorded on.
type ApplyTemplateRequest struct {
	Date string `json:"date" binding:"required,date_key"`
}

// CreateTemplate saves a transaction template
// @Summary     Create a template
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTemplateRequest true "Template details"
// @Success     201 {object} models.Template "Template created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tpl, err := h.templateService.CreateTemplate(userID, req.Name, services.TransactionInput{
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Provider:    req.Provider,
		ProviderID:  req.ProviderID,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TEMPLATE", "template", tpl.ID, c.ClientIP(),
		map[string]interface{}{"name": tpl.Name})

	c.JSON(http.StatusCreated, gin.H{"template": tpl})
}

// GetUserTemplates lists the user's templates by name
// @Summary     List templates
// @Tags        templates
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Template "Templates"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /templates [get]
func (h *TemplateHandler) GetUserTemplates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templates, err := h.templateService.GetUserTemplates(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// GetTemplateByID returns one template
// @Summary     Get template by ID
// @Tags        templates
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} models.Template "Template"
// @Failure     400 {object} ErrorResponse "Invalid template ID"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /templates/{id} [get]
func (h *TemplateHandler) GetTemplateByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tpl, err := h.templateService.GetTemplateByID(userID, templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": tpl})
}

// RenameTemplate renames a template
// @Summary     Rename template
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Template ID"
// @Param       request body RenameTemplateRequest true "New name"
// @Success     200 {object} models.Template "Renamed template"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /templates/{id} [put]
func (h *TemplateHandler) RenameTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tpl, err := h.templateService.RenameTemplate(userID, templateID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": tpl})
}

// DeleteTemplate removes a template
// @Summary     Delete template
// @Tags        templates
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} MessageResponse "Template deleted"
// @Failure     400 {object} ErrorResponse "Invalid template ID"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.templateService.DeleteTemplate(userID, templateID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_TEMPLATE", "template", templateID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// ApplyTemplate records a transaction from a template
// @Summary     Apply template
// @Description Record the template's transaction on the given day
// @Tags        templates
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Template ID"
// @Param       request body ApplyTemplateRequest true "Day to record on"
// @Success     201 {object} ledger.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /templates/{id}/apply [post]
func (h *TemplateHandler) ApplyTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tpl, err := h.templateService.GetTemplateByID(userID, templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, services.TransactionInput{
		Date:        date,
		Type:        ledger.Type(tpl.Type),
		Category:    tpl.Category,
		Description: tpl.Description,
		Amount:      tpl.Amount,
		Provider:    tpl.Provider,
		ProviderID:  tpl.ProviderID,
		Notes:       tpl.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", strconv.FormatInt(transaction.ID, 10), c.ClientIP(),
		map[string]interface{}{"template_id": tpl.ID, "date": req.Date})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}
