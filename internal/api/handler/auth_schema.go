package handler

import "github.com/lewkins/storefront-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// registerRequest leaves role to the service so a taken email is reported first.
type registerRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (loginRequest) validationMessage() string { return "email and password are required" }

type authResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
}

func (changePasswordRequest) validationMessage() string {
	return "current password and new password are required"
}

type setRoleRequest struct {
	Role string `json:"role"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type verifyTokenResponse struct {
	Valid bool         `json:"valid"`
	User  *domain.User `json:"user,omitempty"`
	Error string       `json:"error,omitempty"`
}
