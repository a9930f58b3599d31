package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lewkins/storefront-api/internal/api/middleware"
	"github.com/lewkins/storefront-api/internal/core/domain"
)

// actor returns the user resolved by the Authorize middleware. Its absence means
// the route was registered without the gate.
func actor(c echo.Context) (*domain.User, error) {
	u, ok := c.Get(middleware.UserKey).(*domain.User)
	if !ok || u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return u, nil
}

// pathID parses the :id path parameter. Ids that are not integers cannot exist,
// so they are reported with the resource's not-found error.
func pathID(c echo.Context, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

// bind decodes the request body and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}

// messageResponse is the {"message": ...} envelope used by mutating endpoints.
type messageResponse struct {
	Message string `json:"message"`
}
