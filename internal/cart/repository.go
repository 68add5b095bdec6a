package cart

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type Repository interface {
	FindByUser(ctx context.Context, userID string) ([]model.CartItem, error)
	// LockByUser is FindByUser holding row locks until the surrounding transaction ends.
	LockByUser(ctx context.Context, userID string) ([]model.CartItem, error)
	// AddQuantity inserts item or adds its quantity to the existing row, then
	// loads the stored row back into item.
	AddQuantity(ctx context.Context, item *model.CartItem) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*model.CartItem, error)
	Delete(ctx context.Context, userID, productID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
