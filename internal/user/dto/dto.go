package dto

import (
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type UserFilters struct {
	Role        string
	SearchQuery string // name or email substring
	Page        int
	PageSize    int
}

type AuthResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}
