package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/notification"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderListener turns OrderCreated events into confirmation emails.
type OrderListener struct {
	consumer MessageReader
	mailer   notification.Notifier
	logger   logger.ZapLogger
}

func NewOrderListener(consumer MessageReader, mailer notification.Notifier, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		mailer:   mailer,
		logger:   logger,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting Order Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Order Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event notification.OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != notification.EventOrderCreated {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	if err := l.mailer.NotifyOrderPlaced(ctx, event.OrderPlaced()); err != nil {
		l.logger.Error("Failed to send order confirmation",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}
