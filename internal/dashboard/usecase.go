package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/dashboard/dto"
)

type UseCase interface {
	GetStats(ctx context.Context) (*dto.Stats, error)
}
