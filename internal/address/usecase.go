package address

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/address/dto"
	"github.com/fekuna/omnipos-storefront/internal/model"
)

type UseCase interface {
	ListAddresses(ctx context.Context, userID string) ([]model.Address, error)
	CreateAddress(ctx context.Context, input *dto.CreateAddressInput) (*model.Address, error)
	UpdateAddress(ctx context.Context, input *dto.UpdateAddressInput) (*model.Address, error)
	DeleteAddress(ctx context.Context, userID, id string) error
	SetDefault(ctx context.Context, userID, id string) (*model.Address, error)
}
