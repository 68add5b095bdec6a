package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/user"
	"github.com/fekuna/omnipos-storefront/internal/user/dto"
	"github.com/fekuna/omnipos-storefront/pkg/database/postgres"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgEmailTaken         = "The email has already been taken."
	msgInvalidCredentials = "Invalid credentials"
	msgUserNotFound       = "User not found"
)

// OrderHistory loads every order of a user with its items.
type OrderHistory interface {
	ListAllForUser(ctx context.Context, userID string) ([]model.Order, error)
}

type AddressLister interface {
	FindByUser(ctx context.Context, userID string) ([]model.Address, error)
}

type userUseCase struct {
	repo      user.Repository
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenManager
	revoker   auth.Revoker
	orders    OrderHistory
	addresses AddressLister
	logger    logger.ZapLogger
}

func NewUserUseCase(
	repo user.Repository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenManager,
	revoker auth.Revoker,
	orders OrderHistory,
	addresses AddressLister,
	log logger.ZapLogger,
) user.UseCase {
	return &userUseCase{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		revoker:   revoker,
		orders:    orders,
		addresses: addresses,
		logger:    log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *userUseCase) Register(ctx context.Context, input *dto.RegisterInput) (*dto.AuthResult, error) {
	u, err := uc.createUser(ctx, input, model.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return uc.issue(u)
}

func (uc *userUseCase) createUser(ctx context.Context, input *dto.RegisterInput, role string) (*model.User, error) {
	email := normalizeEmail(input.Email)
	taken, err := uc.repo.IsEmailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Field("email", msgEmailTaken)
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &model.User{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, apperror.Field("email", msgEmailTaken)
		}
		return nil, err
	}
	return u, nil
}

func (uc *userUseCase) issue(u *model.User) (*dto.AuthResult, error) {
	token, claims, err := uc.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResult{User: u, Token: token, ExpiresAt: claims.Expiry()}, nil
}

func (uc *userUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.AuthResult, error) {
	u, err := uc.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if u == nil || !uc.hasher.Compare(u.PasswordHash, input.Password) {
		return nil, apperror.Unauthenticated(msgInvalidCredentials)
	}
	return uc.issue(u)
}

func (uc *userUseCase) Logout(ctx context.Context, session *auth.UserContext) error {
	return uc.revoker.Revoke(ctx, session.TokenID, session.ExpiresAt)
}

func (uc *userUseCase) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	return u, nil
}

func (uc *userUseCase) UpdateProfile(ctx context.Context, input *dto.UpdateProfileInput) (*model.User, error) {
	u, err := uc.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := uc.applyEmail(ctx, u, input.Email); err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(input.Name)
	u.UpdatedAt = time.Now()

	if err := uc.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *userUseCase) applyEmail(ctx context.Context, u *model.User, email string) error {
	email = normalizeEmail(email)
	if email == u.Email {
		return nil
	}
	taken, err := uc.repo.IsEmailTaken(ctx, email, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Field("email", msgEmailTaken)
	}
	u.Email = email
	return nil
}

func (uc *userUseCase) save(ctx context.Context, u *model.User) error {
	if err := uc.repo.Update(ctx, u); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.Field("email", msgEmailTaken)
		}
		return err
	}
	return nil
}

func (uc *userUseCase) DeleteAccount(ctx context.Context, input *dto.DeleteAccountInput) error {
	u, err := uc.GetProfile(ctx, input.UserID)
	if err != nil {
		return err
	}
	if !uc.hasher.Compare(u.PasswordHash, input.Password) {
		return apperror.Field("password", "The password is incorrect.")
	}

	if err := uc.repo.Delete(ctx, u.ID); err != nil {
		return err
	}

	if input.TokenID != "" {
		if err := uc.revoker.Revoke(ctx, input.TokenID, input.ExpiresAt); err != nil {
			uc.logger.Warn("failed to revoke token of deleted account", zap.String("user_id", u.ID), zap.Error(err))
		}
	}
	return nil
}

func (uc *userUseCase) ListUsers(ctx context.Context, filters *dto.UserFilters) ([]model.User, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := uc.orders.ListAllForUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	addresses, err := uc.addresses.FindByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	u.Orders = orders
	u.Addresses = addresses
	ordersCount, addressesCount := len(orders), len(addresses)
	u.OrdersCount = &ordersCount
	u.AddressesCount = &addressesCount
	return u, nil
}

func (uc *userUseCase) UpdateUser(ctx context.Context, input *dto.AdminUpdateUserInput) (*model.User, error) {
	u, err := uc.GetProfile(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := uc.applyEmail(ctx, u, *input.Email); err != nil {
			return nil, err
		}
	}
	if input.Name != nil {
		u.Name = strings.TrimSpace(*input.Name)
	}
	u.Role = input.Role
	u.UpdatedAt = time.Now()

	if err := uc.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin creates the bootstrap administrator, or promotes the existing
// account with that email.
func (uc *userUseCase) EnsureAdmin(ctx context.Context, input *dto.RegisterInput) error {
	existing, err := uc.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return err
	}
	if existing == nil {
		u, err := uc.createUser(ctx, input, model.RoleAdmin)
		if err != nil {
			return err
		}
		uc.logger.Info("Created bootstrap administrator", zap.String("user_id", u.ID))
		return nil
	}
	if existing.IsAdmin() {
		return nil
	}

	existing.Role = model.RoleAdmin
	existing.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, existing); err != nil {
		return err
	}
	uc.logger.Info("Promoted bootstrap administrator", zap.String("user_id", existing.ID))
	return nil
}
