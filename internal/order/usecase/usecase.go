package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/address"
	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/notification"
	"github.com/fekuna/omnipos-storefront/internal/order"
	"github.com/fekuna/omnipos-storefront/internal/order/dto"
	"github.com/fekuna/omnipos-storefront/internal/payment"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/pkg/database/postgres"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
)

const (
	msgOrderNotFound = "Order not found"

	notifyTimeout = 10 * time.Second
)

type UserFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]model.User, error)
}

type orderUseCase struct {
	repo      order.Repository
	tx        postgres.TxManager
	carts     cart.Repository
	products  product.Repository
	addresses address.Repository
	users     UserFinder
	notifier  notification.Notifier
	payments  payment.Gateway
	logger    logger.ZapLogger
}

// NewOrderUseCase builds the order usecase. payments may be nil when no
// gateway is configured.
func NewOrderUseCase(
	repo order.Repository,
	tx postgres.TxManager,
	carts cart.Repository,
	products product.Repository,
	addresses address.Repository,
	users UserFinder,
	notifier notification.Notifier,
	payments payment.Gateway,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		tx:        tx,
		carts:     carts,
		products:  products,
		addresses: addresses,
		users:     users,
		notifier:  notifier,
		payments:  payments,
		logger:    log,
	}
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	orders, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if err := uc.load(ctx, orders, filters.UserID == ""); err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (uc *orderUseCase) ListAllForUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, _, err := uc.repo.FindAll(ctx, &dto.OrderFilters{UserID: userID})
	if err != nil {
		return nil, err
	}
	if err := uc.load(ctx, orders, false); err != nil {
		return nil, err
	}
	return orders, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, userID, id string) (*model.Order, error) {
	o, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return uc.loadOne(ctx, o, false)
}

// owned masks orders of other users as missing.
func (uc *orderUseCase) owned(ctx context.Context, userID, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil || o.UserID != userID {
		return nil, apperror.NotFound(msgOrderNotFound)
	}
	return o, nil
}

func (uc *orderUseCase) GetOrderAdmin(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.loadOne(ctx, o, true)
}

func (uc *orderUseCase) find(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperror.NotFound(msgOrderNotFound)
	}
	return o, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error) {
	o, err := uc.find(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, o.ID, input.Status); err != nil {
		return nil, err
	}
	o.Status = input.Status
	o.UpdatedAt = time.Now()
	return uc.loadOne(ctx, o, true)
}

func (uc *orderUseCase) loadOne(ctx context.Context, o *model.Order, withUser bool) (*model.Order, error) {
	orders := []model.Order{*o}
	if err := uc.load(ctx, orders, withUser); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// load attaches items with their products, the address and optionally the
// user, one query per relation.
func (uc *orderUseCase) load(ctx context.Context, orders []model.Order, withUser bool) error {
	if len(orders) == 0 {
		return nil
	}

	orderIDs := make([]string, len(orders))
	var addressIDs, userIDs []string
	for i, o := range orders {
		orderIDs[i] = o.ID
		if o.AddressID != nil {
			addressIDs = append(addressIDs, *o.AddressID)
		}
		userIDs = append(userIDs, o.UserID)
	}

	items, err := uc.repo.FindItemsByOrderIDs(ctx, orderIDs)
	if err != nil {
		return err
	}
	if err := uc.attachItemProducts(ctx, items); err != nil {
		return err
	}
	itemsByOrder := map[string][]model.OrderItem{}
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	addressByID := map[string]*model.Address{}
	if len(addressIDs) > 0 {
		rows, err := uc.addresses.FindByIDs(ctx, addressIDs)
		if err != nil {
			return err
		}
		for i := range rows {
			addressByID[rows[i].ID] = &rows[i]
		}
	}

	userByID := map[string]*model.User{}
	if withUser {
		rows, err := uc.users.FindByIDs(ctx, userIDs)
		if err != nil {
			return err
		}
		for i := range rows {
			userByID[rows[i].ID] = &rows[i]
		}
	}

	for i := range orders {
		o := &orders[i]
		o.Items = itemsByOrder[o.ID]
		if o.Items == nil {
			o.Items = []model.OrderItem{}
		}
		if o.AddressID != nil {
			o.Address = addressByID[*o.AddressID]
		}
		if withUser {
			o.User = userByID[o.UserID]
		}
	}
	return nil
}

func (uc *orderUseCase) attachItemProducts(ctx context.Context, items []model.OrderItem) error {
	var ids []string
	for _, item := range items {
		if item.ProductID != nil {
			ids = append(ids, *item.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	rows, err := uc.products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*model.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	for i := range items {
		if items[i].ProductID != nil {
			items[i].Product = byID[*items[i].ProductID]
		}
	}
	return nil
}
