package cart

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/cart/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
)

type UseCase interface {
	AddItem(ctx context.Context, input *dto.AddItemInput) (*model.CartItem, error)
	// UpdateItem returns nil when the quantity removed the item.
	UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
}
