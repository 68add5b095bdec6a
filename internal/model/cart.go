package model

import "github.com/shopspring/decimal"

type CartItem struct {
	BaseModel
	UserID    string   `db:"user_id" json:"user_id"`
	ProductID string   `db:"product_id" json:"product_id"`
	Quantity  int      `db:"quantity" json:"quantity"`
	Product   *Product `db:"-" json:"product,omitempty"`
}

// Subtotal is the live line price. Items without a loaded product count as zero.
func (c CartItem) Subtotal() decimal.Decimal {
	if c.Product == nil {
		return decimal.Zero
	}
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

type Cart struct {
	Items         []CartItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	ItemsCount    int             `json:"items_count"`
	TotalQuantity int             `json:"total_quantity"`
}

func NewCart(items []CartItem) *Cart {
	c := &Cart{Items: items, Total: decimal.Zero, ItemsCount: len(items)}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	for _, item := range items {
		c.Total = c.Total.Add(item.Subtotal())
		c.TotalQuantity += item.Quantity
	}
	return c
}
