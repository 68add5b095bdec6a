package dashboard

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/dashboard/dto"
)

type Repository interface {
	Counts(ctx context.Context) (*dto.Counts, error)
	OrderStatusCounts(ctx context.Context) (map[string]int, error)
	// Sales sums non-canceled orders overall, since monthStart and since dayStart.
	Sales(ctx context.Context, monthStart, dayStart time.Time) (*dto.Sales, error)
}
