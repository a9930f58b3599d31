package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

// roleSet is the set of token roles a route accepts. An empty set accepts any role.
type roleSet map[string]struct{}

func newRoleSet(roles []string) roleSet {
	s := make(roleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s roleSet) permits(role string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[role]
	return ok
}

// AdminOnly is Authorize restricted to admin tokens.
func AdminOnly(tokens ports.TokenService, users UserLookup) echo.MiddlewareFunc {
	return Authorize(tokens, users, domain.RoleAdmin)
}
