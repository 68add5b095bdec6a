package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID  *string         `db:"category_id" json:"category_id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Image       *string         `db:"image" json:"image"`
	ImageURL    *string         `db:"-" json:"image_url"`
	Category    *Category       `db:"-" json:"category,omitempty"`
}
