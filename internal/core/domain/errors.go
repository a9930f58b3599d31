package domain

import "errors"

// Error kinds. Every error returned by the core wraps exactly one of these so the
// transport layer can map it to a status code with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error is a domain error carrying a client-facing message and its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Invalid returns a validation error with the given message.
func Invalid(msg string) error { return newError(ErrValidation, msg) }

var (
	ErrMissingToken       = newError(ErrUnauthenticated, "token is missing")
	ErrInvalidToken       = newError(ErrUnauthenticated, "token is invalid or expired")
	ErrUserGone           = newError(ErrUnauthenticated, "user not found")
	ErrInvalidCredentials = newError(ErrUnauthenticated, "invalid email or password")

	ErrAdminRequired = newError(ErrForbidden, "admin access required")
	ErrNotOwner      = newError(ErrForbidden, "unauthorized")

	ErrUserNotFound    = newError(ErrNotFound, "user not found")
	ErrProductNotFound = newError(ErrNotFound, "product not found")
	ErrOrderNotFound   = newError(ErrNotFound, "order not found")

	ErrEmailTaken            = newError(ErrConflict, "email already registered")
	ErrIdempotencyInProgress = newError(ErrConflict, "a request with this idempotency key is still being processed")

	ErrInvalidEmail       = newError(ErrValidation, "invalid email format")
	ErrPasswordTooShort   = newError(ErrValidation, "password must be at least 6 characters")
	ErrInvalidRole        = newError(ErrValidation, "invalid role, must be buyer or admin")
	ErrWrongPassword      = newError(ErrValidation, "current password is incorrect")
	ErrSelfDelete         = newError(ErrValidation, "cannot delete your own account")
	ErrInvalidOrderStatus = newError(ErrValidation, "invalid status, must be one of: pending, processing, shipped, delivered, cancelled")
	ErrOrderNotCancelable = newError(ErrValidation, "cannot cancel order that has been shipped or delivered")
	ErrOrderCancelled     = newError(ErrValidation, "order is already cancelled")
)
