package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/memstore"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order/usecase"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID    = "0d3c7b3e-6d1f-4c77-9a59-5d3a3c1e7a10"
	productID = "5b6f0f1c-98d4-4b23-a0f1-3c7f0d3e9b22"
	addressID = "9a1e2f3b-4c5d-4e6f-8a7b-1c2d3e4f5a6b"
)

type env struct {
	store  *memstore.Store
	router *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memstore.New()
	ctx := context.Background()
	now := time.Now()
	user := &model.User{BaseModel: model.BaseModel{ID: userID, CreatedAt: now}, Name: "Jane", Email: "jane@example.com", Role: model.RoleCustomer}
	require.NoError(t, s.Users().Create(ctx, user))
	require.NoError(t, s.Products().Create(ctx, &model.Product{
		BaseModel: model.BaseModel{ID: productID, CreatedAt: now},
		Name:      "Sencha",
		Price:     decimal.NewFromInt(40),
	}))
	require.NoError(t, s.Addresses().Create(ctx, &model.Address{
		BaseModel: model.BaseModel{ID: addressID, CreatedAt: now},
		UserID:    userID,
		Address:   "1 Main St",
		City:      "Brussels",
	}))
	require.NoError(t, s.Carts().AddQuantity(ctx, &model.CartItem{
		BaseModel: model.BaseModel{ID: "c1", CreatedAt: now},
		UserID:    userID,
		ProductID: productID,
		Quantity:  2,
	}))

	uc := usecase.NewOrderUseCase(s.Orders(), s, s.Carts(), s.Products(), s.Addresses(), s.Users(), nil, nil, logger.NewNop())
	h := NewOrderHandler(uc, logger.NewNop())

	r := gin.New()
	r.POST("/api/payments/webhook", h.PaymentWebhook)
	api := r.Group("/api", func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), &auth.UserContext{User: user}))
	})
	api.POST("/checkout", h.Checkout)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:order", h.GetOrder)
	api.POST("/orders/:order/payment-intent", h.CreatePaymentIntent)
	api.GET("/admin/orders", h.AdminListOrders)
	api.PUT("/admin/orders/:order", h.AdminUpdateStatus)
	return &env{store: s, router: r}
}

func (e *env) call(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestCheckout(t *testing.T) {
	e := newEnv(t)

	w := e.call(http.MethodPost, "/api/checkout", `{"address_id":"`+addressID+`","payment_method":"paypal"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Message string      `json:"message"`
		Data    model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Order placed successfully", body.Message)
	assert.True(t, decimal.NewFromInt(80).Equal(body.Data.Total))
	assert.Equal(t, model.OrderPending, body.Data.Status)
	require.Len(t, body.Data.Items, 1)

	w = e.call(http.MethodGet, "/api/orders/"+body.Data.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.call(http.MethodPost, "/api/checkout", `{"address_id":"`+addressID+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Your cart is empty"}`, w.Body.String())
}

func TestCheckout_Validation(t *testing.T) {
	e := newEnv(t)

	w := e.call(http.MethodPost, "/api/checkout", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"address_id"`)
	assert.Contains(t, w.Body.String(), `"new_address"`)

	w = e.call(http.MethodPost, "/api/checkout", `{"address_id":"`+addressID+`","payment_method":"bitcoin"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "The selected payment method is invalid.")

	w = e.call(http.MethodPost, "/api/checkout", `{"address_id":"11111111-2222-4333-8444-555555555555"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "The selected address id is invalid.")
}

func TestGetOrder_Unknown(t *testing.T) {
	e := newEnv(t)

	w := e.call(http.MethodGet, "/api/orders/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Order not found"}`, w.Body.String())
}

func TestAdminUpdateStatus(t *testing.T) {
	e := newEnv(t)
	w := e.call(http.MethodPost, "/api/checkout", `{"address_id":"`+addressID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var placed struct {
		Data model.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))

	w = e.call(http.MethodPut, "/api/admin/orders/"+placed.Data.ID, `{"status":"shipped","total":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "The total field is prohibited.")

	w = e.call(http.MethodPut, "/api/admin/orders/"+placed.Data.ID, `{"status":"shipped"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"shipped"`)

	w = e.call(http.MethodGet, "/api/admin/orders?status=shipped", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = e.call(http.MethodGet, "/api/admin/orders?date_from=yesterday", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPayments_Disabled(t *testing.T) {
	e := newEnv(t)

	w := e.call(http.MethodPost, "/api/payments/webhook", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"message":"Payments are not configured"}`, w.Body.String())
}
