package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

const EventPaymentSucceeded = "payment_intent.succeeded"

var ErrInvalidSignature = errors.New("payment: invalid webhook signature")

type Intent struct {
	ID           string          `json:"id"`
	ClientSecret string          `json:"client_secret"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// Event is a verified webhook notification. PaymentIntentID and OrderID are
// only set for payment intent events.
type Event struct {
	Type            string
	PaymentIntentID string
	OrderID         string
}

type Gateway interface {
	CreateIntent(ctx context.Context, orderID string, amount decimal.Decimal) (*Intent, error)
	ParseEvent(payload []byte, signature string) (*Event, error)
}

// MinorUnits converts an amount to the smallest currency unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
