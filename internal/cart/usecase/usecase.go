package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/cart/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgProductNotFound = "Product not found"
	msgItemNotFound    = "Product not found in cart"
)

type cartUseCase struct {
	repo     cart.Repository
	products product.Repository
	logger   logger.ZapLogger
}

func NewCartUseCase(repo cart.Repository, products product.Repository, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

func (uc *cartUseCase) AddItem(ctx context.Context, input *dto.AddItemInput) (*model.CartItem, error) {
	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound(msgProductNotFound)
	}

	now := time.Now()
	item := &model.CartItem{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:    input.UserID,
		ProductID: p.ID,
		Quantity:  input.Quantity,
	}
	if err := uc.repo.AddQuantity(ctx, item); err != nil {
		return nil, err
	}

	uc.logger.Debug("cart item added",
		zap.String("user_id", input.UserID),
		zap.String("product_id", p.ID),
		zap.Int("quantity", item.Quantity),
	)

	item.Product = p
	return item, nil
}

func (uc *cartUseCase) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.CartItem, error) {
	if input.Quantity <= 0 {
		return nil, uc.RemoveItem(ctx, input.UserID, input.ProductID)
	}

	item, err := uc.repo.SetQuantity(ctx, input.UserID, input.ProductID, input.Quantity)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NotFound(msgItemNotFound)
	}

	p, err := uc.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	item.Product = p
	return item, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, userID, productID string) error {
	n, err := uc.repo.Delete(ctx, userID, productID)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NotFound(msgItemNotFound)
	}
	return nil
}

func (uc *cartUseCase) Clear(ctx context.Context, userID string) error {
	_, err := uc.repo.DeleteByUser(ctx, userID)
	return err
}

func (uc *cartUseCase) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	items, err := uc.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := AttachProducts(ctx, uc.products, items); err != nil {
		return nil, err
	}
	return model.NewCart(items), nil
}

// AttachProducts loads the product of every item with one query.
func AttachProducts(ctx context.Context, products product.Repository, items []model.CartItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	rows, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]*model.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	for i := range items {
		items[i].Product = byID[items[i].ProductID]
	}
	return nil
}
