package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// IdentityKey is the echo context key holding the caller's *domain.Identity.
const IdentityKey = "identity"

// Authenticate verifies the bearer token and stores the identity it claims.
// The claims are not trusted for authorization; RequireAdmin and the services
// re-load the user from the store.
func Authenticate(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthenticated)
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				return fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthenticated)
			}

			id, err := parseIdentity(strings.TrimSpace(token), jwtSecret)
			if err != nil {
				return fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
			}

			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}

func parseIdentity(raw, secret string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("token not valid")
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, errors.New("token has no subject")
	}
	email, _ := claims["email"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return &domain.Identity{ID: sub, Email: email, IsAdmin: isAdmin, Token: raw}, nil
}

// Identity returns the identity set by Authenticate, or nil.
func Identity(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}
