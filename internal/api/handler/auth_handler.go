package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	AdminKey string `json:"adminKey,omitempty"`
}

type adminKeySignupRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	AdminKey string `json:"adminKey" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createAdminRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User    *domain.User `json:"user"`
	Token   string       `json:"token,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Signup registers an account. A non-empty adminKey must match the escalation
// secret or the request is rejected and nothing is stored.
//
// @Summary      Sign up
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /users/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
		AdminKey: req.AdminKey,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

// Login
//
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

// CreateAdminWithKey
//
// @Summary      Create an admin with the escalation secret
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      adminKeySignupRequest  true  "Account details and secret"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /users/create-admin-key [post]
func (h *AuthHandler) CreateAdminWithKey(c echo.Context) error {
	var req adminKeySignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
		AdminKey: req.AdminKey,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{User: user, Token: token, Message: "admin account created"})
}

// CreateAdmin lets an existing admin create another admin account. No token
// is returned; the new admin logs in separately.
//
// @Summary      Create an admin (admin only)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAdminRequest  true  "New admin"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /admin/user/create-admin [post]
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.CreateAdmin(c.Request().Context(), actor, ports.CreateAdminInput{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{User: user, Message: "admin created"})
}

// errorBody documents the error envelope for swagger.
type errorBody struct {
	Error string `json:"error"`
}
