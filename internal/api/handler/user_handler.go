package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type setAdminRequest struct {
	// Pointer so an explicit false passes "required".
	IsAdmin *bool `json:"isAdmin" validate:"required"`
}

type userResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// ListUsers
//
// @Summary      List users (admin only)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.service.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SetAdmin grants or revokes admin rights. Admins cannot revoke their own.
//
// @Summary      Set a user's admin flag (admin only)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "User ID"
// @Param        body  body      setAdminRequest  true  "New flag"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /admin/user/{id}/admin [put]
func (h *UserHandler) SetAdmin(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req setAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.SetUserAdmin(c.Request().Context(), actor, c.Param("id"), *req.IsAdmin)
	if err != nil {
		return err
	}

	msg := "admin role revoked"
	if user.IsAdmin {
		msg = "admin role granted"
	}
	return c.JSON(http.StatusOK, userResponse{User: user, Message: msg})
}
