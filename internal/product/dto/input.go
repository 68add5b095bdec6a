package dto

import (
	"io"

	"github.com/shopspring/decimal"
)

// Upload is an already validated image file.
type Upload struct {
	Filename string
	Body     io.Reader
}

type CreateProductInput struct {
	CategoryID  *string
	Name        string
	Description *string
	Price       decimal.Decimal
	Image       *Upload
}

type UpdateProductInput struct {
	ID             string
	CategoryID     *string
	CategorySet    bool // false keeps the current category
	Name           string
	Description    *string
	DescriptionSet bool // false keeps the current description
	Price          decimal.Decimal
	Image          *Upload // nil keeps the current image
}
