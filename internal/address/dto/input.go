package dto

type CreateAddressInput struct {
	UserID     string
	Address    string
	PostalCode string
	City       string
	Country    string
	Type       string
}

type UpdateAddressInput struct {
	ID         string
	UserID     string
	Address    string
	PostalCode string
	City       string
	Country    string
	Type       string // empty keeps the current type
}
