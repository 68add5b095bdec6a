package model

const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"
)

var AddressTypes = []string{AddressBilling, AddressShipping}

type Address struct {
	BaseModel
	UserID     string `db:"user_id" json:"user_id"`
	Address    string `db:"address" json:"address"`
	PostalCode string `db:"postal_code" json:"postal_code"`
	City       string `db:"city" json:"city"`
	Country    string `db:"country" json:"country"`
	Type       string `db:"type" json:"type"`
	IsDefault  bool   `db:"is_default" json:"is_default"`
}
