package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("%w: email is required", domain.ErrValidation), http.StatusBadRequest, "email is required"},
		{fmt.Errorf("signup: %w: card number is invalid", domain.ErrValidation), http.StatusBadRequest, "card number is invalid"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
		{fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated), http.StatusUnauthorized, "authentication required"},
		{fmt.Errorf("create book: %w", domain.ErrForbidden), http.StatusForbidden, "access forbidden"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrBookNotFound, http.StatusNotFound, "book not found"},
		{domain.ErrUserExists, http.StatusConflict, "email already registered"},
		{fmt.Errorf("set user admin: %w", domain.ErrSelfDemotion), http.StatusConflict, domain.ErrSelfDemotion.Error()},
		{domain.ErrDuplicatePurchase, http.StatusConflict, domain.ErrDuplicatePurchase.Error()},
		{echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed, "method not allowed"},
		{errors.New("mongo: connection reset by peer"), http.StatusInternalServerError, "internal server error"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must not be rewritten: %d %q", rec.Code, rec.Body.String())
	}
}
