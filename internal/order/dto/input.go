package dto

type NewAddressInput struct {
	Address    string
	PostalCode string
	City       string
	Country    string
}

// CheckoutInput carries either AddressID or NewAddress.
type CheckoutInput struct {
	UserID        string
	UserName      string
	UserEmail     string
	AddressID     *string
	NewAddress    *NewAddressInput
	PaymentMethod *string
}

type UpdateStatusInput struct {
	ID     string
	Status string
}
