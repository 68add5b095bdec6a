package dto

import "time"

type OrderFilters struct {
	UserID      string // empty lists every user's orders
	Status      string
	SearchQuery string // order id, user name or email
	DateFrom    *time.Time
	DateTo      *time.Time // inclusive day
	Page        int
	PageSize    int // 0 returns every order
}
