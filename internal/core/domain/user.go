package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleBuyer = "buyer"

	MinPasswordLength = 6
)

// User models an account in the credential store.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the stored role is admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleBuyer
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail is the loose format check the storefront has always used:
// the address must contain both an "@" and a ".".
func ValidEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
