package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/memstore"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product/usecase"
	"github.com/fekuna/omnipos-storefront/internal/storage"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	teaID     = "0b8f3c6e-2a4d-4f5e-9c1b-7d2e8a9f0c11"
	senchaID  = "5d1a7e2c-8b3f-4c6d-a9e0-1f2b3c4d5e6f"
	productsP = "/api/admin/products/"
)

func newRouter(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.Categories().Create(ctx, &model.Category{
		BaseModel: model.BaseModel{ID: teaID, CreatedAt: time.Now()},
		Name:      "Tea",
	}))
	category, description := teaID, "Green tea"
	require.NoError(t, s.Products().Create(ctx, &model.Product{
		BaseModel:   model.BaseModel{ID: senchaID, CreatedAt: time.Now()},
		CategoryID:  &category,
		Name:        "Sencha",
		Description: &description,
		Price:       decimal.NewFromInt(10),
	}))

	images := storage.NewLocalStore(t.TempDir(), "http://localhost/storage")
	uc := usecase.NewProductUseCase(s.Products(), s.Categories(), images, nil, nil, logger.NewNop())
	h := NewProductHandler(uc, logger.NewNop())

	r := gin.New()
	r.POST("/api/admin/products", h.CreateProduct)
	r.PUT("/api/admin/products/:product", h.UpdateProduct)
	return r, s
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateProduct_PartialBodyKeepsFields(t *testing.T) {
	r, s := newRouter(t)

	w := call(r, http.MethodPut, productsP+senchaID, `{"name":"Sencha","price":12}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := s.Products().FindByID(context.Background(), senchaID)
	require.NoError(t, err)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, teaID, *stored.CategoryID)
	require.NotNil(t, stored.Description)
	assert.Equal(t, "Green tea", *stored.Description)
	assert.True(t, decimal.NewFromInt(12).Equal(stored.Price))
}

func TestUpdateProduct_NullClearsFields(t *testing.T) {
	r, s := newRouter(t)

	w := call(r, http.MethodPut, productsP+senchaID, `{"name":"Sencha","price":12,"category_id":null,"description":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := s.Products().FindByID(context.Background(), senchaID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryID)
	assert.Nil(t, stored.Description)
}

func TestProductPriceRules(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		name  string
		price string
		want  string
	}{
		{"too large", `10000000000`, "The price field must not be greater than 9999999999.99."},
		{"three decimals", `12.345`, "The price field must have 0-2 decimal places."},
		{"negative", `-1`, "The price field must be at least 0."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, http.MethodPost, "/api/admin/products", `{"name":"Matcha","price":`+tt.price+`}`)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var body struct {
				Errors map[string][]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, []string{tt.want}, body.Errors["price"])
		})
	}

	w := call(r, http.MethodPost, "/api/admin/products", `{"name":"Matcha","price":"9999999999.99"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
