package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/category"
	categorydto "github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/dashboard"
	"github.com/fekuna/omnipos-storefront/internal/dashboard/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order"
	orderdto "github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/fekuna/omnipos-storefront/internal/product"
	productdto "github.com/fekuna/omnipos-storefront/internal/product/dto"
	"github.com/fekuna/omnipos-storefront/internal/user"
	userdto "github.com/fekuna/omnipos-storefront/internal/user/dto"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
)

const (
	recentProducts = 5
	recentUsers    = 5
	recentOrders   = 10
)

type dashboardUseCase struct {
	repo       dashboard.Repository
	products   product.Repository
	categories category.Repository
	users      user.Repository
	orders     order.UseCase
	now        func() time.Time
	logger     logger.ZapLogger
}

func NewDashboardUseCase(
	repo dashboard.Repository,
	products product.Repository,
	categories category.Repository,
	users user.Repository,
	orders order.UseCase,
	log logger.ZapLogger,
) dashboard.UseCase {
	return &dashboardUseCase{
		repo:       repo,
		products:   products,
		categories: categories,
		users:      users,
		orders:     orders,
		now:        time.Now,
		logger:     log,
	}
}

func (uc *dashboardUseCase) GetStats(ctx context.Context) (*dto.Stats, error) {
	counts, err := uc.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := uc.repo.OrderStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	sales, err := uc.repo.Sales(ctx, monthStart, dayStart)
	if err != nil {
		return nil, err
	}

	products, _, err := uc.products.FindAll(ctx, &productdto.ProductFilters{
		SortBy: "created_at", SortOrder: "desc", Page: 1, PageSize: recentProducts,
	})
	if err != nil {
		return nil, err
	}
	categories, _, err := uc.categories.FindAll(ctx, &categorydto.CategoryFilters{})
	if err != nil {
		return nil, err
	}
	users, _, err := uc.users.FindAll(ctx, &userdto.UserFilters{Page: 1, PageSize: recentUsers})
	if err != nil {
		return nil, err
	}
	orders, _, err := uc.orders.ListOrders(ctx, &orderdto.OrderFilters{Page: 1, PageSize: recentOrders})
	if err != nil {
		return nil, err
	}

	return &dto.Stats{
		Products:   dto.ProductStats{Count: counts.Products, Recent: products},
		Categories: dto.CategoryStats{Count: counts.Categories, List: categories},
		Users: dto.UserStats{
			Count:     counts.Users,
			Customers: counts.Customers,
			Admins:    counts.Admins,
			Recent:    users,
		},
		Orders: dto.OrderStats{
			Count:    counts.Orders,
			Pending:  byStatus[model.OrderPending],
			Paid:     byStatus[model.OrderPaid],
			Shipped:  byStatus[model.OrderShipped],
			Canceled: byStatus[model.OrderCanceled],
			Recent:   orders,
		},
		Sales: *sales,
	}, nil
}
