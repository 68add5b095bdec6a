package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/memstore"
	"github.com/fekuna/omnipos-storefront/internal/model"
	orderusecase "github.com/fekuna/omnipos-storefront/internal/order/usecase"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Users().Create(ctx, &model.User{BaseModel: model.BaseModel{ID: "admin", CreatedAt: now}, Email: "admin@example.com", Role: model.RoleAdmin}))
	require.NoError(t, s.Users().Create(ctx, &model.User{BaseModel: model.BaseModel{ID: "jane", CreatedAt: now}, Email: "jane@example.com", Role: model.RoleCustomer}))
	require.NoError(t, s.Categories().Create(ctx, &model.Category{BaseModel: model.BaseModel{ID: "c1"}, Name: "Tea"}))
	for i := 0; i < 7; i++ {
		require.NoError(t, s.Products().Create(ctx, &model.Product{
			BaseModel: model.BaseModel{ID: fmt.Sprintf("p%d", i), CreatedAt: now.Add(time.Duration(i) * time.Minute)},
			Name:      fmt.Sprintf("Product %d", i),
			Price:     decimal.NewFromInt(1),
		}))
	}

	orders := []struct {
		id      string
		total   int64
		status  string
		created time.Time
	}{
		{"o1", 100, model.OrderPending, now.Add(-time.Hour)},
		{"o2", 50, model.OrderPaid, now.AddDate(0, 0, -10)},
		{"o3", 30, model.OrderShipped, now.AddDate(0, -1, 0)},
		{"o4", 20, model.OrderCanceled, now.Add(-2 * time.Hour)},
	}
	for _, o := range orders {
		require.NoError(t, s.Orders().Create(ctx, &model.Order{
			BaseModel: model.BaseModel{ID: o.id, CreatedAt: o.created},
			UserID:    "jane",
			Total:     decimal.NewFromInt(o.total),
			Status:    o.status,
		}))
	}

	orderUC := orderusecase.NewOrderUseCase(s.Orders(), s, s.Carts(), s.Products(), s.Addresses(), s.Users(), nil, nil, logger.NewNop())
	uc := NewDashboardUseCase(s.Dashboard(), s.Products(), s.Categories(), s.Users(), orderUC, logger.NewNop()).(*dashboardUseCase)
	uc.now = func() time.Time { return now }

	stats, err := uc.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 7, stats.Products.Count)
	require.Len(t, stats.Products.Recent, 5)
	assert.Equal(t, "p6", stats.Products.Recent[0].ID)

	assert.Equal(t, 1, stats.Categories.Count)
	assert.Len(t, stats.Categories.List, 1)

	assert.Equal(t, 2, stats.Users.Count)
	assert.Equal(t, 1, stats.Users.Admins)
	assert.Equal(t, 1, stats.Users.Customers)

	assert.Equal(t, 4, stats.Orders.Count)
	assert.Equal(t, 1, stats.Orders.Pending)
	assert.Equal(t, 1, stats.Orders.Paid)
	assert.Equal(t, 1, stats.Orders.Shipped)
	assert.Equal(t, 1, stats.Orders.Canceled)
	require.Len(t, stats.Orders.Recent, 4)
	assert.Equal(t, "o1", stats.Orders.Recent[0].ID)
	require.NotNil(t, stats.Orders.Recent[0].User)

	assert.True(t, decimal.NewFromInt(180).Equal(stats.Sales.Total), stats.Sales.Total.String())
	assert.True(t, decimal.NewFromInt(150).Equal(stats.Sales.Monthly), stats.Sales.Monthly.String())
	assert.True(t, decimal.NewFromInt(100).Equal(stats.Sales.Daily), stats.Sales.Daily.String())
}
