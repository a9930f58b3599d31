package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

// AuthService implements registration, login and account management.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	log    zerolog.Logger
	cost   int
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	for _, f := range []struct{ name, value string }{
		{"email", in.Email},
		{"password", in.Password},
		{"name", in.Name},
	} {
		if f.value == "" {
			return "", nil, domain.Invalid("missing field: " + f.name)
		}
	}

	email := domain.NormalizeEmail(in.Email)
	if !domain.ValidEmail(email) {
		return "", nil, domain.ErrInvalidEmail
	}
	if len(in.Password) < domain.MinPasswordLength {
		return "", nil, domain.ErrPasswordTooShort
	}
	switch _, err := s.users.FindByEmail(ctx, email); {
	case err == nil:
		return "", nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return "", nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	if !domain.ValidRole(role) {
		return "", nil, domain.ErrInvalidRole
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return "", nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return token, user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.Invalid("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyToken resolves a raw token to its live user record.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserGone
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile validates every supplied field before writing any of them.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *domain.User, in ports.UpdateProfileInput) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		other, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != current.ID:
			return nil, domain.ErrEmailTaken
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		updated.Email = email
	}

	return s.users.Update(ctx, &updated)
}

func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.User, current, next string) error {
	if current == "" || next == "" {
		return domain.Invalid("current password and new password are required")
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrWrongPassword
	}
	if len(next) < domain.MinPasswordLength {
		return domain.Invalid("new password must be at least 6 characters")
	}

	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if _, err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("password changed")
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// SetRole changes the stored role. Tokens already issued keep their old role
// claim until they expire.
func (s *AuthService) SetRole(ctx context.Context, targetID int64, role string) (*domain.User, error) {
	if role == "" {
		return nil, domain.Invalid("role is required")
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", targetID).Str("role", role).Msg("user role changed")
	return updated, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, actor *domain.User, targetID int64) error {
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return err
	}
	if targetID == actor.ID {
		return domain.ErrSelfDelete
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", targetID).Int64("deleted_by", actor.ID).Msg("user deleted")
	return nil
}

func (s *AuthService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
