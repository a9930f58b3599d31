package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lewkins/storefront-api/internal/api/metrics"
	"github.com/lewkins/storefront-api/internal/api/middleware"
	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()

	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		User:    user,
		Token:   token,
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()

	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// Profile returns the caller's account.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the caller's name and/or email.
//
// @Summary      Update current user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	updated, err := h.authService.UpdateProfile(c.Request().Context(), user, ports.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "Profile updated successfully", User: updated})
}

// ChangePassword replaces the caller's password after checking the current one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password changed successfully"})
}

// ListUsers returns every account.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SetRole changes another account's role.
//
// @Summary      Update user role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "User id"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/auth/users/{id}/role [put]
func (h *AuthHandler) SetRole(c echo.Context) error {
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	var req setRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.authService.SetRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User role updated successfully", User: user})
}

// DeleteUser removes an account other than the caller's.
//
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/users/{id} [delete]
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrUserNotFound)
	if err != nil {
		return err
	}

	if err := h.authService.DeleteUser(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// VerifyToken reports whether the Authorization header carries a usable token.
// Failures are answered here rather than by the error handler so the body keeps
// the {"valid": false} shape.
//
// @Summary      Verify a session token
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer token"
// @Success      200            {object}  verifyTokenResponse
// @Failure      401            {object}  verifyTokenResponse
// @Router       /api/auth/verify-token [post]
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	raw := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

	user, err := h.authService.VerifyToken(c.Request().Context(), raw)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) && errors.Is(err, domain.ErrUnauthenticated) {
			return c.JSON(http.StatusUnauthorized, verifyTokenResponse{Valid: false, Error: de.Msg})
		}
		return err
	}
	return c.JSON(http.StatusOK, verifyTokenResponse{Valid: true, User: user})
}
