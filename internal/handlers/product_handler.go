package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "contauno/internal/errors"
	"contauno/internal/pagination"
	"contauno/internal/services"
)

// ProductHandler handles product catalogue and stock movement requests.
type ProductHandler struct {
	productService services.ProductServicer
	auditService   services.AuditServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer, auditService services.AuditServicer) *ProductHandler {
	return &ProductHandler{productService: productService, auditService: auditService}
}

// CreateProductRequest represents the payload for adding a product.
// initial_cost seeds the weighted-average cost of the opening stock.
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	SKU          string          `json:"sku" binding:"max=100"`
	Category     string          `json:"category" binding:"max=100"`
	Description  string          `json:"description" binding:"max=1000"`
	Price        decimal.Decimal `json:"price" swaggertype:"string"`
	InitialStock int64           `json:"initial_stock" binding:"min=0"`
	InitialCost  decimal.Decimal `json:"initial_cost" swaggertype:"string"`
}

// UpdateProductRequest represents the payload for editing product metadata.
// Stock and cost only change through inventory transactions.
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	SKU         string          `json:"sku" binding:"max=100"`
	Category    string          `json:"category" binding:"max=100"`
	Description string          `json:"description" binding:"max=1000"`
	Price       decimal.Decimal `json:"price" swaggertype:"string"`
}

// CreateProduct handles adding a product to the catalogue
// @Summary     Create a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateProductRequest true "Product details"
// @Success     201 {object} services.ProductView "Product created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(userID, services.ProductInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Category:     req.Category,
		Description:  req.Description,
		Price:        req.Price,
		InitialStock: req.InitialStock,
		InitialCost:  req.InitialCost,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PRODUCT", "product", product.ID, c.ClientIP(),
		map[string]interface{}{"name": product.Name, "stock": product.Stock})

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// GetUserProducts lists the catalogue
// @Summary     List products
// @Description Paginated product list ordered by name, searchable by name, SKU or category
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       search    query string false "Case-insensitive search term"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.ProductView] "Paginated products"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /products [get]
func (h *ProductHandler) GetUserProducts(c *gin.Context) {
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

	result, err := h.productService.GetUserProducts(userID, c.Query("search"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProductCategories lists the distinct product categories
// @Summary     List product categories
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]string "Product categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /products/categories [get]
func (h *ProductHandler) GetProductCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.productService.GetProductCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetProductByID returns one product with its stock status
// @Summary     Get product by ID
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Product ID"
// @Success     200 {object} services.ProductView "Product details"
// @Failure     400 {object} ErrorResponse "Invalid product ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id} [get]
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.GetProduct(userID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateProduct edits product metadata
// @Summary     Update product
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Product ID"
// @Param       request body UpdateProductRequest true "Product metadata"
// @Success     200 {object} services.ProductView "Updated product"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(userID, productID, services.ProductInput{
		Name:        req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PRODUCT", "product", productID, c.ClientIP(),
		map[string]interface{}{"name": product.Name, "price": product.Price.String()})

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product from the catalogue
// @Summary     Delete product
// @Description Remove a product. Past transactions keep their item lines.
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Product ID"
// @Success     200 {object} MessageResponse "Product deleted"
// @Failure     400 {object} ErrorResponse "Invalid product ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.productService.DeleteProduct(userID, productID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PRODUCT", "product", productID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GetProductMovements lists the inventory lines of one product
// @Summary     Product stock movements
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Product ID"
// @Success     200 {object} map[string][]services.Movement "Movements, newest first"
// @Failure     400 {object} ErrorResponse "Invalid product ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Product not found"
// @Router      /products/{id}/movements [get]
func (h *ProductHandler) GetProductMovements(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondMovements(c, userID, productID)
}

// GetInventoryMovements lists the inventory lines of every product
// @Summary     All stock movements
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.Movement "Movements, newest first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /inventory/movements [get]
func (h *ProductHandler) GetInventoryMovements(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondMovements(c, userID, "")
}

func (h *ProductHandler) respondMovements(c *gin.Context, userID, productID string) {
	movements, err := h.productService.GetMovements(userID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}
