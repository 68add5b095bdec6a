package address

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type Repository interface {
	// FindByUser lists the default address first, then newest first.
	FindByUser(ctx context.Context, userID string) ([]model.Address, error)
	FindByID(ctx context.Context, id string) (*model.Address, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Address, error)
	// Create stores a and marks it default when it is the user's first address.
	Create(ctx context.Context, a *model.Address) error
	Update(ctx context.Context, a *model.Address) error
	Delete(ctx context.Context, id string) error
	ClearDefault(ctx context.Context, userID string) error
	MarkDefault(ctx context.Context, id string) error
	// PromoteLatest makes the newest address default when the user has none.
	PromoteLatest(ctx context.Context, userID string) error
}
