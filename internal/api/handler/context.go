package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pixelcore/pixelcore-api/internal/api/middleware"
	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

// caller returns the identity injected by the auth middleware. Its absence
// means the route was mounted without authentication, which is treated as an
// unauthenticated request rather than a server fault.
func caller(c echo.Context) (*ports.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil || id.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
