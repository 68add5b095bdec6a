package model

import "github.com/shopspring/decimal"

const (
	OrderPending  = "pending"
	OrderPaid     = "paid"
	OrderShipped  = "shipped"
	OrderCanceled = "canceled"
)

var OrderStatuses = []string{OrderPending, OrderPaid, OrderShipped, OrderCanceled}

var PaymentMethods = []string{"credit_card", "paypal", "bank_transfer", "cash_on_delivery"}

type Order struct {
	BaseModel
	UserID           string          `db:"user_id" json:"user_id"`
	AddressID        *string         `db:"address_id" json:"address_id"`
	Total            decimal.Decimal `db:"total" json:"total"`
	Status           string          `db:"status" json:"status"`
	PaymentMethod    *string         `db:"payment_method" json:"payment_method"`
	PaymentReference *string         `db:"payment_reference" json:"payment_reference,omitempty"`
	Items            []OrderItem     `db:"-" json:"items"`
	Address          *Address        `db:"-" json:"address,omitempty"`
	User             *User           `db:"-" json:"user,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID   string          `db:"order_id" json:"order_id"`
	ProductID *string         `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Product   *Product        `db:"-" json:"product,omitempty"`
}
