package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lewkins/storefront-api/internal/api/metrics"
	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

// Context keys set by Authorize.
const (
	UserKey      = "user"
	TokenRoleKey = "token_role"
)

// UserLookup resolves the user a token was issued to.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// Authorize verifies the session token and resolves the acting user.
//
// With no roles every authenticated user passes. With roles, the token's role
// claim must be one of them; the claim is checked before the user is looked up,
// so a token issued before a role change keeps its original role until it expires.
func Authorize(tokens ports.TokenService, users UserLookup, roles ...string) echo.MiddlewareFunc {
	allowed := newRoleSet(roles)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				metrics.GateRejectionsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				metrics.GateRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return domain.ErrInvalidToken
			}

			if !allowed.permits(claims.Role) {
				metrics.GateRejectionsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrAdminRequired
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					metrics.GateRejectionsTotal.WithLabelValues("user_gone").Inc()
					return domain.ErrUserGone
				}
				return err
			}

			c.Set(UserKey, user)
			c.Set(TokenRoleKey, claims.Role)

			return next(c)
		}
	}
}

// BearerToken accepts both "Bearer <token>" and a bare token.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		header = header[7:]
	}
	return strings.TrimSpace(header)
}
