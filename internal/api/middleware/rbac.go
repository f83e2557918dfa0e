package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/pkg/metrics"
)

// UserLookup is the slice of the user store the admin gate needs.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// RequireAdmin rejects callers that are not admins according to the store,
// whatever their token says. Must run after Authenticate. On success the
// context identity is replaced with the fresh one.
func RequireAdmin(users UserLookup, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claimed := Identity(c)
			if claimed == nil {
				return domain.ErrUnauthenticated
			}

			user, err := users.FindByID(c.Request().Context(), claimed.ID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return fmt.Errorf("%w: account no longer exists", domain.ErrUnauthenticated)
				}
				return fmt.Errorf("admin gate: %w", err)
			}

			current := user.Identity()
			if !domain.CanViewDashboard(current) {
				metrics.AuthorizationDeniedTotal.WithLabelValues("dashboard").Inc()
				log.Warn().
					Str("user_id", current.ID).
					Bool("token_is_admin", claimed.IsAdmin).
					Str("path", c.Path()).
					Msg("admin route denied")
				return domain.ErrForbidden
			}

			current.Token = claimed.Token
			c.Set(IdentityKey, current)
			return next(c)
		}
	}
}
