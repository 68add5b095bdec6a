package model

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var Roles = []string{RoleAdmin, RoleCustomer}

type User struct {
	BaseModel
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Role           string    `db:"role" json:"role"`
	OrdersCount    *int      `db:"orders_count" json:"orders_count,omitempty"`
	AddressesCount *int      `db:"addresses_count" json:"addresses_count,omitempty"`
	Orders         []Order   `db:"-" json:"orders,omitempty"`
	Addresses      []Address `db:"-" json:"addresses,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
