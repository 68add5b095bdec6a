package order

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
)

type Repository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItems(ctx context.Context, items []model.OrderItem) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByPaymentReference(ctx context.Context, ref string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	FindItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]model.OrderItem, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetPaymentReference(ctx context.Context, id, ref string) error
	// MarkPaid moves a pending order to paid and reports whether it did.
	MarkPaid(ctx context.Context, id string) (bool, error)
}
