package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "contauno/internal/errors"
	"contauno/internal/ledger"
	"contauno/internal/pagination"
	"contauno/internal/services"
)

// --- mock product service ---

type mockProductService struct {
	createProductFn        func(userID string, in services.ProductInput) (*services.ProductView, error)
	getProductFn           func(userID, productID string) (*services.ProductView, error)
	getUserProductsFn      func(userID, search string, page pagination.PageRequest) (*pagination.PageResponse[services.ProductView], error)
	updateProductFn        func(userID, productID string, in services.ProductInput) (*services.ProductView, error)
	deleteProductFn        func(userID, productID string) error
	getProductCategoriesFn func(userID string) ([]string, error)
	getMovementsFn         func(userID, productID string) ([]services.Movement, error)
}

func (m *mockProductService) CreateProduct(userID string, in services.ProductInput) (*services.ProductView, error) {
	if m.createProductFn != nil {
		return m.createProductFn(userID, in)
	}
	return &services.ProductView{}, nil
}

func (m *mockProductService) GetProduct(userID, productID string) (*services.ProductView, error) {
	if m.getProductFn != nil {
		return m.getProductFn(userID, productID)
	}
	return &services.ProductView{}, nil
}

func (m *mockProductService) GetUserProducts(userID, search string, page pagination.PageRequest) (*pagination.PageResponse[services.ProductView], error) {
	if m.getUserProductsFn != nil {
		return m.getUserProductsFn(userID, search, page)
	}
	resp := pagination.NewPageResponse([]services.ProductView{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockProductService) UpdateProduct(userID, productID string, in services.ProductInput) (*services.ProductView, error) {
	if m.updateProductFn != nil {
		return m.updateProductFn(userID, productID, in)
	}
	return &services.ProductView{}, nil
}

func (m *mockProductService) DeleteProduct(userID, productID string) error {
	if m.deleteProductFn != nil {
		return m.deleteProductFn(userID, productID)
	}
	return nil
}

func (m *mockProductService) GetProductCategories(userID string) ([]string, error) {
	if m.getProductCategoriesFn != nil {
		return m.getProductCategoriesFn(userID)
	}
	return []string{}, nil
}

func (m *mockProductService) GetMovements(userID, productID string) ([]services.Movement, error) {
	if m.getMovementsFn != nil {
		return m.getMovementsFn(userID, productID)
	}
	return []services.Movement{}, nil
}

var _ services.ProductServicer = (*mockProductService)(nil)

func setupProductRouter(handler *ProductHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/products", handler.CreateProduct)
	auth.GET("/products", handler.GetUserProducts)
	auth.GET("/products/categories", handler.GetProductCategories)
	auth.GET("/products/:id", handler.GetProductByID)
	auth.PUT("/products/:id", handler.UpdateProduct)
	auth.DELETE("/products/:id", handler.DeleteProduct)
	auth.GET("/products/:id/movements", handler.GetProductMovements)
	auth.GET("/inventory/movements", handler.GetInventoryMovements)
	return r
}

func productView(in services.ProductInput) *services.ProductView {
	return &services.ProductView{
		Product: ledger.Product{
			ID:                  productA,
			Name:                in.Name,
			Price:               in.Price,
			Stock:               in.InitialStock,
			WeightedAverageCost: in.InitialCost,
		},
		Status:         ledger.InStock,
		InventoryValue: in.InitialCost.Mul(decimal.NewFromInt(in.InitialStock)),
	}
}

func TestProductHandler_CreateProduct(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var captured services.ProductInput
		prodSvc := &mockProductService{
			createProductFn: func(_ string, in services.ProductInput) (*services.ProductView, error) {
				captured = in
				return productView(in), nil
			},
		}
		audit := &mockAuditService{}
		handler := NewProductHandler(prodSvc, audit)
		r := setupProductRouter(handler)

		rec := doRequest(r, "POST", "/products",
			`{"name":"Coffee beans","sku":"CB-1","price":"12.00","initial_stock":10,"initial_cost":"7.50"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.InitialStock != 10 || !captured.InitialCost.Equal(decimal.RequireFromString("7.5")) {
			t.Errorf("unexpected input %+v", captured)
		}
		product := parseJSON(t, rec)["product"].(map[string]interface{})
		if product["status"] != "in_stock" || product["inventory_value"] != "75" {
			t.Errorf("unexpected product %v", product)
		}
		if len(audit.entries) != 1 || audit.entries[0].resourceID != productA {
			t.Errorf("expected a create audit entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 on negative stock", func(t *testing.T) {
		handler := NewProductHandler(&mockProductService{}, &mockAuditService{})
		r := setupProductRouter(handler)

		rec := doRequest(r, "POST", "/products", `{"name":"Beans","initial_stock":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestProductHandler_GetUserProducts(t *testing.T) {
	var capturedSearch string
	prodSvc := &mockProductService{
		getUserProductsFn: func(_, search string, page pagination.PageRequest) (*pagination.PageResponse[services.ProductView], error) {
			capturedSearch = search
			resp := pagination.NewPageResponse([]services.ProductView{*productView(services.ProductInput{Name: "Beans"})}, 1, 20, 1)
			return &resp, nil
		},
	}
	handler := NewProductHandler(prodSvc, &mockAuditService{})
	r := setupProductRouter(handler)

	rec := doRequest(r, "GET", "/products?search=bean", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if capturedSearch != "bean" {
		t.Errorf("expected search bean, got %q", capturedSearch)
	}
	result := parseJSON(t, rec)
	if result["total_items"] != float64(1) {
		t.Errorf("expected 1 item, got %v", result["total_items"])
	}
}

func TestProductHandler_GetProductCategories(t *testing.T) {
	prodSvc := &mockProductService{
		getProductCategoriesFn: func(string) ([]string, error) {
			return []string{"Drinks", "Food"}, nil
		},
	}
	handler := NewProductHandler(prodSvc, &mockAuditService{})
	r := setupProductRouter(handler)

	rec := doRequest(r, "GET", "/products/categories", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cats := parseJSON(t, rec)["categories"].([]interface{}); len(cats) != 2 {
		t.Errorf("expected 2 categories, got %v", cats)
	}
}

func TestProductHandler_GetProductByID(t *testing.T) {
	t.Run("returns 404 when missing", func(t *testing.T) {
		prodSvc := &mockProductService{
			getProductFn: func(_, _ string) (*services.ProductView, error) {
				return nil, apperrors.ErrProductNotFound
			},
		}
		handler := NewProductHandler(prodSvc, &mockAuditService{})
		r := setupProductRouter(handler)

		rec := doRequest(r, "GET", "/products/"+productA, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PRODUCT_NOT_FOUND")
	})

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		handler := NewProductHandler(&mockProductService{}, &mockAuditService{})
		r := setupProductRouter(handler)

		rec := doRequest(r, "GET", "/products/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProductHandler_UpdateProduct(t *testing.T) {
	var captured services.ProductInput
	prodSvc := &mockProductService{
		updateProductFn: func(_, _ string, in services.ProductInput) (*services.ProductView, error) {
			captured = in
			return productView(in), nil
		},
	}
	audit := &mockAuditService{}
	handler := NewProductHandler(prodSvc, audit)
	r := setupProductRouter(handler)

	rec := doRequest(r, "PUT", "/products/"+productA,
		`{"name":"Coffee","price":"14","initial_stock":500}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.InitialStock != 0 {
		t.Errorf("expected stock to be ignored on update, got %d", captured.InitialStock)
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "UPDATE_PRODUCT" {
		t.Errorf("expected an update audit entry, got %+v", audit.entries)
	}
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	var deleted string
	prodSvc := &mockProductService{
		deleteProductFn: func(_, productID string) error {
			deleted = productID
			return nil
		},
	}
	handler := NewProductHandler(prodSvc, &mockAuditService{})
	r := setupProductRouter(handler)

	rec := doRequest(r, "DELETE", "/products/"+productA, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != productA {
		t.Errorf("expected %s deleted, got %q", productA, deleted)
	}
}

func TestProductHandler_Movements(t *testing.T) {
	var capturedIDs []string
	prodSvc := &mockProductService{
		getMovementsFn: func(_, productID string) ([]services.Movement, error) {
			capturedIDs = append(capturedIDs, productID)
			return []services.Movement{{ProductID: productA, Type: ledger.Income, Quantity: 2}}, nil
		},
	}
	handler := NewProductHandler(prodSvc, &mockAuditService{})
	r := setupProductRouter(handler)

	for _, path := range []string{"/products/" + productA + "/movements", "/inventory/movements"} {
		rec := doRequest(r, "GET", path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if m := parseJSON(t, rec)["movements"].([]interface{}); len(m) != 1 {
			t.Errorf("%s: expected 1 movement, got %d", path, len(m))
		}
	}

	if len(capturedIDs) != 2 || capturedIDs[0] != productA || capturedIDs[1] != "" {
		t.Errorf("unexpected product filters %q", capturedIDs)
	}
}
