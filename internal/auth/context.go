package auth

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

// UserContext is the authenticated caller of one request.
type UserContext struct {
	User      *model.User
	TokenID   string
	ExpiresAt time.Time
}

func (u *UserContext) UserID() string {
	return u.User.ID
}

func (u *UserContext) IsAdmin() bool {
	return u.User.IsAdmin()
}

type userKey struct{}

func WithUser(ctx context.Context, u *UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromContext(ctx context.Context) (*UserContext, bool) {
	u, ok := ctx.Value(userKey{}).(*UserContext)
	return u, ok && u != nil && u.User != nil
}
