package order

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/fekuna/omnipos-storefront/internal/payment"
)

type UseCase interface {
	// Checkout turns the caller's cart into a pending order.
	Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	ListAllForUser(ctx context.Context, userID string) ([]model.Order, error)
	GetOrder(ctx context.Context, userID, id string) (*model.Order, error)
	GetOrderAdmin(ctx context.Context, id string) (*model.Order, error)
	UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error)

	CreatePaymentIntent(ctx context.Context, userID, id string) (*payment.Intent, error)
	HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error
}
