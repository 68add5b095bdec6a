package auth

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/response"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgUnauthenticated = "Unauthenticated."
	msgAdminOnly       = "Access denied. Administrator privileges required."
)

type UserLoader interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type Middleware struct {
	tokens  *TokenManager
	revoker Revoker
	users   UserLoader
	logger  logger.ZapLogger
}

func NewMiddleware(tokens *TokenManager, revoker Revoker, users UserLoader, log logger.ZapLogger) *Middleware {
	return &Middleware{tokens: tokens, revoker: revoker, users: users, logger: log}
}

// Authenticate resolves the bearer token to a user and stores it on the
// request context. The user is reloaded on every request.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			response.Error(c, m.logger, apperror.Unauthenticated(msgUnauthenticated))
			return
		}

		claims, err := m.tokens.Parse(raw)
		if err != nil {
			response.Error(c, m.logger, apperror.Unauthenticated(msgUnauthenticated))
			return
		}

		ctx := c.Request.Context()
		revoked, err := m.revoker.IsRevoked(ctx, claims.Id)
		if err != nil {
			m.logger.Error("failed to check token revocation", zap.Error(err))
			response.Error(c, m.logger, err)
			return
		}
		if revoked {
			response.Error(c, m.logger, apperror.Unauthenticated(msgUnauthenticated))
			return
		}

		user, err := m.users.FindByID(ctx, claims.Subject)
		if err != nil {
			response.Error(c, m.logger, err)
			return
		}
		if user == nil {
			response.Error(c, m.logger, apperror.Unauthenticated(msgUnauthenticated))
			return
		}

		c.Request = c.Request.WithContext(WithUser(ctx, &UserContext{
			User:      user,
			TokenID:   claims.Id,
			ExpiresAt: claims.Expiry(),
		}))
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := FromContext(c.Request.Context())
		if !ok || !u.IsAdmin() {
			response.Error(c, m.logger, apperror.AccessDenied(msgAdminOnly))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	// Browsers cannot set headers on websocket upgrades.
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return c.Query("token")
	}
	return ""
}

// Current returns the authenticated caller or an Unauthenticated error.
func Current(c *gin.Context) (*UserContext, error) {
	u, ok := FromContext(c.Request.Context())
	if !ok {
		return nil, apperror.Unauthenticated(msgUnauthenticated)
	}
	return u, nil
}
