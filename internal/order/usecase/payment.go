package usecase

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/payment"
	"go.uber.org/zap"
)

const (
	msgPaymentsDisabled = "Payments are not configured"
	msgOrderNotPending  = "Only pending orders can be paid"
	msgInvalidSignature = "Invalid webhook signature"
)

func (uc *orderUseCase) CreatePaymentIntent(ctx context.Context, userID, id string) (*payment.Intent, error) {
	if uc.payments == nil {
		return nil, apperror.Unavailable(msgPaymentsDisabled)
	}
	o, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if o.Status != model.OrderPending {
		return nil, apperror.Conflict(msgOrderNotPending)
	}

	intent, err := uc.payments.CreateIntent(ctx, o.ID, o.Total)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetPaymentReference(ctx, o.ID, intent.ID); err != nil {
		return nil, err
	}
	return intent, nil
}

func (uc *orderUseCase) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	if uc.payments == nil {
		return apperror.Unavailable(msgPaymentsDisabled)
	}
	event, err := uc.payments.ParseEvent(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return apperror.Conflict(msgInvalidSignature)
		}
		return err
	}
	if event.Type != payment.EventPaymentSucceeded {
		return nil
	}

	orderID := event.OrderID
	if orderID == "" {
		o, err := uc.repo.FindByPaymentReference(ctx, event.PaymentIntentID)
		if err != nil {
			return err
		}
		if o == nil {
			uc.logger.Warn("payment for unknown order", zap.String("payment_intent", event.PaymentIntentID))
			return nil
		}
		orderID = o.ID
	}

	paid, err := uc.repo.MarkPaid(ctx, orderID)
	if err != nil {
		return err
	}
	if !paid {
		uc.logger.Warn("payment for order that is not pending",
			zap.String("order_id", orderID),
			zap.String("payment_intent", event.PaymentIntentID),
		)
		return nil
	}
	uc.logger.Info("Order paid", zap.String("order_id", orderID))
	return nil
}
