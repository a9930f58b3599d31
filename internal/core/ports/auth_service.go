package ports

import (
	"context"
	"time"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

// TokenClaims is what a verified session token asserts.
type TokenClaims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	Issue(userID int64, role string) (string, error)
	// Verify returns domain.ErrInvalidToken for any malformed, tampered or expired token.
	Verify(token string) (*TokenClaims, error)
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string // empty means buyer
}

// UpdateProfileInput carries the optional profile fields; nil means "leave as is".
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// AuthService covers registration, sessions and account management.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	VerifyToken(ctx context.Context, token string) (*domain.User, error)

	UpdateProfile(ctx context.Context, actor *domain.User, in UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, actor *domain.User, current, next string) error

	ListUsers(ctx context.Context) ([]*domain.User, error)
	SetRole(ctx context.Context, targetID int64, role string) (*domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.User, targetID int64) error
}
