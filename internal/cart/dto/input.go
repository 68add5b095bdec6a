package dto

type AddItemInput struct {
	UserID    string
	ProductID string
	Quantity  int
}

type UpdateItemInput struct {
	UserID    string
	ProductID string
	Quantity  int // 0 removes the item
}
