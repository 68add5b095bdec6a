package model

type Category struct {
	BaseModel
	Name          string `db:"name" json:"name"`
	ProductsCount *int   `db:"products_count" json:"products_count,omitempty"`
}
