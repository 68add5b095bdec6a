package user

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/user/dto"
)

type UseCase interface {
	Register(ctx context.Context, input *dto.RegisterInput) (*dto.AuthResult, error)
	Login(ctx context.Context, input *dto.LoginInput) (*dto.AuthResult, error)
	Logout(ctx context.Context, session *auth.UserContext) error

	// Profile
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, input *dto.UpdateProfileInput) (*model.User, error)
	DeleteAccount(ctx context.Context, input *dto.DeleteAccountInput) error

	// Admin
	ListUsers(ctx context.Context, filters *dto.UserFilters) ([]model.User, int, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, input *dto.AdminUpdateUserInput) (*model.User, error)
	EnsureAdmin(ctx context.Context, input *dto.RegisterInput) error
}
