package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.nextID++
	r.users[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.Email == user.Email && u.ID != user.ID {
			return nil, domain.ErrEmailTaken
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

var discardLogger = zerolog.Nop()

func newTestAuthService() (*AuthService, *stubUserRepo, *TokenService) {
	repo := newStubUserRepo()
	tokens := NewTokenService("secret", time.Hour)
	return NewAuthService(repo, tokens, discardLogger).WithHashCost(bcrypt.MinCost), repo, tokens
}

func mustRegister(t *testing.T, svc *AuthService, email, password, role string) *domain.User {
	t.Helper()
	_, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: email, Password: password, Name: "Test " + role, Role: role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, tokens := newTestAuthService()

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "  Alice@Example.com ", Password: "pass123", Name: " Alice ",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Fatalf("expected normalized fields, got %+v", user)
	}
	if user.Role != domain.RoleBuyer {
		t.Fatalf("expected default role buyer, got %s", user.Role)
	}

	stored := repo.users[user.ID]
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims, err := tokens.Verify(token)
	if err != nil || claims.UserID != user.ID || claims.Role != domain.RoleBuyer {
		t.Fatalf("unexpected token claims: %+v %v", claims, err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   ports.RegisterInput
		want string
	}{
		{"missing email", ports.RegisterInput{Password: "pass123", Name: "n"}, "missing field: email"},
		{"missing password", ports.RegisterInput{Email: "a@b.co", Name: "n"}, "missing field: password"},
		{"missing name", ports.RegisterInput{Email: "a@b.co", Password: "pass123"}, "missing field: name"},
		{"no at", ports.RegisterInput{Email: "ab.co", Password: "pass123", Name: "n"}, domain.ErrInvalidEmail.Error()},
		{"no dot", ports.RegisterInput{Email: "a@bco", Password: "pass123", Name: "n"}, domain.ErrInvalidEmail.Error()},
		{"short password", ports.RegisterInput{Email: "a@b.co", Password: "12345", Name: "n"}, domain.ErrPasswordTooShort.Error()},
		{"bad role", ports.RegisterInput{Email: "a@b.co", Password: "pass123", Name: "n", Role: "root"}, domain.ErrInvalidRole.Error()},
	}
	for _, tc := range cases {
		_, _, err := svc.Register(ctx, tc.in)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
			continue
		}
		if err.Error() != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, err.Error())
		}
	}
}

func TestAuthService_Register_DuplicateIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestAuthService()

	mustRegister(t, svc, "bob@example.com", "pass123", domain.RoleBuyer)
	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "BOB@example.com ", Password: "pass456", Name: "Bob",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthService_Register_DuplicateReportedBeforeBadRole(t *testing.T) {
	svc, _, _ := newTestAuthService()

	mustRegister(t, svc, "dave@example.com", "pass123", domain.RoleBuyer)
	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "dave@example.com", Password: "pass123", Name: "Dave", Role: "superuser",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	mustRegister(t, svc, "carol@example.com", "s3cret", domain.RoleAdmin)

	token, user, err := svc.Login(context.Background(), " Carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	claims, err := tokens.Verify(token)
	if err != nil || claims.Role != domain.RoleAdmin {
		t.Fatalf("expected admin claim, got %+v %v", claims, err)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _, _ := newTestAuthService()
	mustRegister(t, svc, "dave@example.com", "goodpass", domain.RoleBuyer)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "ghost@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing email, got %v", err)
	}
}

func TestAuthService_VerifyToken(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	user := mustRegister(t, svc, "erin@example.com", "pass123", domain.RoleBuyer)
	ctx := context.Background()

	token, _ := tokens.Issue(user.ID, user.Role)
	got, err := svc.VerifyToken(ctx, token)
	if err != nil || got.ID != user.ID {
		t.Fatalf("expected user %d, got %+v %v", user.ID, got, err)
	}

	if _, err := svc.VerifyToken(ctx, ""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}

	ghost, _ := tokens.Issue(999, domain.RoleBuyer)
	if _, err := svc.VerifyToken(ctx, ghost); !errors.Is(err, domain.ErrUserGone) {
		t.Fatalf("expected ErrUserGone, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	alice := mustRegister(t, svc, "alice@example.com", "pass123", domain.RoleBuyer)
	mustRegister(t, svc, "bob@example.com", "pass123", domain.RoleBuyer)
	ctx := context.Background()

	name := "Alice Cooper"
	email := " ALICE.C@example.com"
	updated, err := svc.UpdateProfile(ctx, alice, ports.UpdateProfileInput{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name || updated.Email != "alice.c@example.com" {
		t.Fatalf("unexpected user: %+v", updated)
	}

	// The conflicting email must not leave the new name half-applied.
	otherName := "Should Not Stick"
	taken := "bob@example.com"
	if _, err := svc.UpdateProfile(ctx, alice, ports.UpdateProfileInput{Name: &otherName, Email: &taken}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.users[alice.ID].Name != name {
		t.Fatalf("profile partially updated: %+v", repo.users[alice.ID])
	}

	// Re-submitting the current email is not a conflict.
	same := "alice.c@example.com"
	if _, err := svc.UpdateProfile(ctx, alice, ports.UpdateProfileInput{Email: &same}); err != nil {
		t.Fatalf("own email must be accepted: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	user := mustRegister(t, svc, "frank@example.com", "oldpass", domain.RoleBuyer)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, user, "wrong", "newpass"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user, "oldpass", "123"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user, "", "newpass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing field, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user, "oldpass", "newpass"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, _, err := svc.Login(ctx, "frank@example.com", "newpass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(ctx, "frank@example.com", "oldpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
}

func TestAuthService_SetRole(t *testing.T) {
	svc, _, _ := newTestAuthService()
	user := mustRegister(t, svc, "gina@example.com", "pass123", domain.RoleBuyer)
	ctx := context.Background()

	updated, err := svc.SetRole(ctx, user.ID, domain.RoleAdmin)
	if err != nil || updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %+v %v", updated, err)
	}
	if _, err := svc.SetRole(ctx, user.ID, "owner"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.SetRole(ctx, user.ID, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.SetRole(ctx, 404, domain.RoleBuyer); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthService_DeleteUser(t *testing.T) {
	svc, _, _ := newTestAuthService()
	admin := mustRegister(t, svc, "admin@example.com", "pass123", domain.RoleAdmin)
	victim := mustRegister(t, svc, "victim@example.com", "pass123", domain.RoleBuyer)
	ctx := context.Background()

	if err := svc.DeleteUser(ctx, admin, admin.ID); !errors.Is(err, domain.ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if err := svc.DeleteUser(ctx, admin, 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.DeleteUser(ctx, admin, victim.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	users, _ := svc.ListUsers(ctx)
	if len(users) != 1 || users[0].ID != admin.ID {
		t.Fatalf("unexpected users after delete: %+v", users)
	}
	for _, u := range users {
		if strings.Contains(u.PasswordHash, "pass123") {
			t.Fatalf("plaintext password leaked")
		}
	}
}
