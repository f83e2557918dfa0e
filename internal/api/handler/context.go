package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/api/middleware"
	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// ctxIdentity returns the caller identity placed by the auth middleware.
// A missing identity means the route was wired without Authenticate.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.Identity(c)
	if id == nil {
		return nil, fmt.Errorf("%w: missing authentication", domain.ErrUnauthenticated)
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the echo validator.
// Both failures surface as domain.ErrValidation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}
