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
	"github.com/fekuna/omnipos-storefront/internal/cart/usecase"
	"github.com/fekuna/omnipos-storefront/internal/memstore"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memstore.New()
	ctx := context.Background()
	user := &model.User{BaseModel: model.BaseModel{ID: "u1"}, Name: "Jane", Email: "jane@example.com", Role: model.RoleCustomer}
	require.NoError(t, s.Users().Create(ctx, user))
	require.NoError(t, s.Products().Create(ctx, &model.Product{
		BaseModel: model.BaseModel{ID: "p1", CreatedAt: time.Now()},
		Name:      "Sencha",
		Price:     decimal.NewFromInt(100),
	}))

	h := NewCartHandler(usecase.NewCartUseCase(s.Carts(), s.Products(), logger.NewNop()), logger.NewNop())

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), &auth.UserContext{User: user}))
	})
	api.GET("/cart", h.GetCart)
	api.POST("/cart/:product", h.AddItem)
	api.PUT("/cart/:product", h.UpdateItem)
	api.DELETE("/cart/:product", h.RemoveItem)
	api.DELETE("/cart", h.Clear)
	return r
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartFlow(t *testing.T) {
	r := newRouter(t)

	w := call(r, http.MethodPost, "/api/cart/p1", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"message":"Product added to cart"`)

	w = call(r, http.MethodPost, "/api/cart/p1", `{"quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(r, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []model.CartItem `json:"data"`
		Meta struct {
			Total         float64 `json:"total"`
			ItemsCount    int     `json:"items_count"`
			TotalQuantity int     `json:"total_quantity"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 3, body.Data[0].Quantity)
	assert.Equal(t, 300.0, body.Meta.Total)
	assert.Equal(t, 1, body.Meta.ItemsCount)
	assert.Equal(t, 3, body.Meta.TotalQuantity)

	w = call(r, http.MethodPut, "/api/cart/p1", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Cart updated"`)

	w = call(r, http.MethodPut, "/api/cart/p1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Product removed from cart"}`, w.Body.String())

	w = call(r, http.MethodDelete, "/api/cart/p1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Product not found in cart"}`, w.Body.String())

	w = call(r, http.MethodDelete, "/api/cart", "")
	assert.JSONEq(t, `{"message":"Cart cleared"}`, w.Body.String())
}

func TestAddItem_Validation(t *testing.T) {
	r := newRouter(t)

	w := call(r, http.MethodPost, "/api/cart/p1", `{"quantity":101}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "The quantity field must not be greater than 100.")

	w = call(r, http.MethodPost, "/api/cart/missing", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Product not found"}`, w.Body.String())
}

func TestUpdateItem_RequiresQuantity(t *testing.T) {
	r := newRouter(t)

	w := call(r, http.MethodPut, "/api/cart/p1", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "The quantity field is required.")
}
