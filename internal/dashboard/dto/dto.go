package dto

import (
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/shopspring/decimal"
)

type Counts struct {
	Products   int `db:"products"`
	Categories int `db:"categories"`
	Users      int `db:"users"`
	Customers  int `db:"customers"`
	Admins     int `db:"admins"`
	Orders     int `db:"orders"`
}

type Sales struct {
	Total   decimal.Decimal `db:"total" json:"total"`
	Monthly decimal.Decimal `db:"monthly" json:"monthly"`
	Daily   decimal.Decimal `db:"daily" json:"daily"`
}

type ProductStats struct {
	Count  int             `json:"count"`
	Recent []model.Product `json:"recent"`
}

type CategoryStats struct {
	Count int              `json:"count"`
	List  []model.Category `json:"list"`
}

type UserStats struct {
	Count     int          `json:"count"`
	Customers int          `json:"customers"`
	Admins    int          `json:"admins"`
	Recent    []model.User `json:"recent"`
}

type OrderStats struct {
	Count    int           `json:"count"`
	Pending  int           `json:"pending"`
	Paid     int           `json:"paid"`
	Shipped  int           `json:"shipped"`
	Canceled int           `json:"canceled"`
	Recent   []model.Order `json:"recent"`
}

type Stats struct {
	Products   ProductStats  `json:"products"`
	Categories CategoryStats `json:"categories"`
	Users      UserStats     `json:"users"`
	Orders     OrderStats    `json:"orders"`
	Sales      Sales         `json:"sales"`
}
