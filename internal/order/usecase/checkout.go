package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	cartusecase "github.com/fekuna/omnipos-storefront/internal/cart/usecase"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/notification"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	msgCartEmpty      = "Your cart is empty"
	msgCartChanged    = "Your cart changed during checkout, please try again"
	msgInvalidAddress = "The selected address id is invalid."
)

func (uc *orderUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Order, error) {
	var placed *model.Order

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		addr, err := uc.existingAddress(ctx, input)
		if err != nil {
			return err
		}

		items, err := uc.carts.LockByUser(ctx, input.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperror.Conflict(msgCartEmpty)
		}

		if err := cartusecase.AttachProducts(ctx, uc.products, items); err != nil {
			return err
		}
		for _, item := range items {
			if item.Product == nil {
				return apperror.Conflict(msgCartChanged)
			}
		}

		if addr == nil {
			if addr, err = uc.createAddress(ctx, input); err != nil {
				return err
			}
		}

		now := time.Now()
		o := &model.Order{
			BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			UserID:        input.UserID,
			AddressID:     &addr.ID,
			Total:         decimal.Zero,
			Status:        model.OrderPending,
			PaymentMethod: input.PaymentMethod,
			Address:       addr,
		}

		lines := make([]model.OrderItem, 0, len(items))
		for _, item := range items {
			productID := item.ProductID
			lines = append(lines, model.OrderItem{
				BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
				OrderID:   o.ID,
				ProductID: &productID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
				Product:   item.Product,
			})
			o.Total = o.Total.Add(item.Subtotal())
		}

		if err := uc.repo.Create(ctx, o); err != nil {
			return err
		}
		if err := uc.repo.CreateItems(ctx, lines); err != nil {
			return err
		}

		n, err := uc.carts.DeleteByUser(ctx, input.UserID)
		if err != nil {
			return err
		}
		if n != int64(len(items)) {
			return apperror.Conflict(msgCartChanged)
		}

		o.Items = lines
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, &notification.OrderPlaced{
		Order:     placed,
		UserName:  input.UserName,
		UserEmail: input.UserEmail,
	})

	uc.logger.Info("Order placed",
		zap.String("order_id", placed.ID),
		zap.String("user_id", placed.UserID),
		zap.Int("items", len(placed.Items)),
	)
	return placed, nil
}

// existingAddress returns the caller's chosen address, or nil when the
// checkout carries a new address.
func (uc *orderUseCase) existingAddress(ctx context.Context, input *dto.CheckoutInput) (*model.Address, error) {
	if input.NewAddress != nil {
		return nil, nil
	}
	if input.AddressID == nil {
		return nil, apperror.Field("address_id", "The address id field is required when new address is not present.")
	}
	a, err := uc.addresses.FindByID(ctx, *input.AddressID)
	if err != nil {
		return nil, err
	}
	if a == nil || a.UserID != input.UserID {
		return nil, apperror.Field("address_id", msgInvalidAddress)
	}
	return a, nil
}

func (uc *orderUseCase) createAddress(ctx context.Context, input *dto.CheckoutInput) (*model.Address, error) {
	now := time.Now()
	a := &model.Address{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:     input.UserID,
		Address:    strings.TrimSpace(input.NewAddress.Address),
		PostalCode: strings.TrimSpace(input.NewAddress.PostalCode),
		City:       strings.TrimSpace(input.NewAddress.City),
		Country:    strings.TrimSpace(input.NewAddress.Country),
		Type:       model.AddressShipping,
	}
	if err := uc.addresses.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// notify delivers the placed order. Failures never fail the checkout.
func (uc *orderUseCase) notify(ctx context.Context, n *notification.OrderPlaced) {
	if uc.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := uc.notifier.NotifyOrderPlaced(ctx, n); err != nil {
		uc.logger.Error("Error sending order notification",
			zap.String("order_id", n.Order.ID),
			zap.Error(err),
		)
	}
}
