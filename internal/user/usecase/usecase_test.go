package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/memstore"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/user/dto"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type noOrders struct{}

func (noOrders) ListAllForUser(context.Context, string) ([]model.Order, error) {
	return []model.Order{}, nil
}

type fixture struct {
	store   *memstore.Store
	tokens  *auth.TokenManager
	revoker *auth.MemoryDenylist
	uc      *userUseCase
}

func setup() *fixture {
	s := memstore.New()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	revoker := auth.NewMemoryDenylist()
	uc := NewUserUseCase(s.Users(), auth.NewPasswordHasher(bcrypt.MinCost), tokens, revoker, noOrders{}, s.Addresses(), logger.NewNop())
	return &fixture{store: s, tokens: tokens, revoker: revoker, uc: uc.(*userUseCase)}
}

func (f *fixture) register(t *testing.T, email string) *dto.AuthResult {
	t.Helper()
	res, err := f.uc.Register(context.Background(), &dto.RegisterInput{Name: "Jane", Email: email, Password: "password123"})
	require.NoError(t, err)
	return res
}

func emailErrors(t *testing.T, err error) []string {
	t.Helper()
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr), "expected *apperror.Error, got %v", err)
	return appErr.Fields["email"]
}

func TestRegister(t *testing.T) {
	f := setup()

	res := f.register(t, " Jane@Example.com ")
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, model.RoleCustomer, res.User.Role)
	assert.NotEqual(t, "password123", res.User.PasswordHash)

	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := setup()
	f.register(t, "jane@example.com")

	_, err := f.uc.Register(context.Background(), &dto.RegisterInput{Name: "J", Email: "JANE@example.com", Password: "password123"})
	assert.Equal(t, []string{msgEmailTaken}, emailErrors(t, err))
}

func TestLogin(t *testing.T) {
	f := setup()
	ctx := context.Background()
	f.register(t, "jane@example.com")

	res, err := f.uc.Login(ctx, &dto.LoginInput{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = f.uc.Login(ctx, &dto.LoginInput{Email: "jane@example.com", Password: "wrong-password"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))

	_, err = f.uc.Login(ctx, &dto.LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
}

func TestLogout_RevokesToken(t *testing.T) {
	f := setup()
	ctx := context.Background()
	res := f.register(t, "jane@example.com")
	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(ctx, &auth.UserContext{User: res.User, TokenID: claims.Id, ExpiresAt: claims.Expiry()}))

	revoked, err := f.revoker.IsRevoked(ctx, claims.Id)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestUpdateProfile_EmailUniqueness(t *testing.T) {
	f := setup()
	ctx := context.Background()
	jane := f.register(t, "jane@example.com")
	f.register(t, "john@example.com")

	_, err := f.uc.UpdateProfile(ctx, &dto.UpdateProfileInput{UserID: jane.User.ID, Name: "Jane", Email: "john@example.com"})
	assert.Equal(t, []string{msgEmailTaken}, emailErrors(t, err))

	u, err := f.uc.UpdateProfile(ctx, &dto.UpdateProfileInput{UserID: jane.User.ID, Name: "Jane D", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Jane D", u.Name)
}

func TestDeleteAccount(t *testing.T) {
	f := setup()
	ctx := context.Background()
	res := f.register(t, "jane@example.com")

	err := f.uc.DeleteAccount(ctx, &dto.DeleteAccountInput{UserID: res.User.ID, Password: "nope"})
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "password")

	require.NoError(t, f.uc.DeleteAccount(ctx, &dto.DeleteAccountInput{
		UserID: res.User.ID, Password: "password123", TokenID: "tok-1", ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, err = f.uc.GetProfile(ctx, res.User.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	revoked, err := f.revoker.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestUpdateUser_ChangesRole(t *testing.T) {
	f := setup()
	res := f.register(t, "jane@example.com")

	u, err := f.uc.UpdateUser(context.Background(), &dto.AdminUpdateUserInput{ID: res.User.ID, Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "Jane", u.Name)
}

func TestGetUser_IncludesRelations(t *testing.T) {
	f := setup()
	ctx := context.Background()
	res := f.register(t, "jane@example.com")
	require.NoError(t, f.store.Addresses().Create(ctx, &model.Address{
		BaseModel: model.BaseModel{ID: "a1", CreatedAt: time.Now()},
		UserID:    res.User.ID,
		City:      "Brussels",
	}))

	u, err := f.uc.GetUser(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *u.AddressesCount)
	assert.Equal(t, 0, *u.OrdersCount)
	assert.Len(t, u.Addresses, 1)
}

func TestEnsureAdmin(t *testing.T) {
	f := setup()
	ctx := context.Background()
	input := &dto.RegisterInput{Name: "Admin", Email: "admin@example.com", Password: "password123"}

	require.NoError(t, f.uc.EnsureAdmin(ctx, input))
	require.NoError(t, f.uc.EnsureAdmin(ctx, input))

	users, total, err := f.uc.ListUsers(ctx, &dto.UserFilters{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "admin@example.com", users[0].Email)

	f.register(t, "jane@example.com")
	require.NoError(t, f.uc.EnsureAdmin(ctx, &dto.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "x"}))
	_, total, err = f.uc.ListUsers(ctx, &dto.UserFilters{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
