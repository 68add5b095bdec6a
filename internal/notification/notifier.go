package notification

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"go.uber.org/zap"
)

// OrderPlaced describes a freshly committed order. Order carries its items
// with products and its address.
type OrderPlaced struct {
	Order     *model.Order
	UserName  string
	UserEmail string
}

type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, n *OrderPlaced) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyOrderPlaced(ctx context.Context, n *OrderPlaced) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.NotifyOrderPlaced(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier only records the order. Used when no channel is configured.
type LogNotifier struct {
	logger logger.ZapLogger
}

func NewLogNotifier(log logger.ZapLogger) *LogNotifier {
	return &LogNotifier{logger: log}
}

func (l *LogNotifier) NotifyOrderPlaced(_ context.Context, n *OrderPlaced) error {
	l.logger.Info("Order placed",
		zap.String("order_id", n.Order.ID),
		zap.String("user_email", n.UserEmail),
		zap.String("total", n.Order.Total.StringFixed(2)),
	)
	return nil
}
