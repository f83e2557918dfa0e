package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
)

type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

type bookRequest struct {
	Name        string   `json:"name"        validate:"required"`
	Title       string   `json:"title"       validate:"required"`
	Category    string   `json:"category"    validate:"required"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Description string   `json:"description"`
	Image       string   `json:"image"       validate:"omitempty,url"`
}

func (r bookRequest) toInput() ports.BookInput {
	return ports.BookInput{
		Name:        r.Name,
		Title:       r.Title,
		Category:    r.Category,
		Price:       *r.Price,
		Description: r.Description,
		Image:       r.Image,
	}
}

// ListBooks
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {array}   domain.Book
// @Router       /books [get]
func (h *BookHandler) ListBooks(c echo.Context) error {
	books, err := h.service.ListBooks(c.Request().Context(), domain.BookFilter{Category: c.QueryParam("category")})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book ID"
// @Success      200  {object}  domain.Book
// @Failure      404  {object}  errorBody
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c echo.Context) error {
	book, err := h.service.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// CreateBook
//
// @Summary      Create a book (admin only)
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book"
// @Success      201   {object}  domain.Book
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /books [post]
func (h *BookHandler) CreateBook(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.service.CreateBook(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/books/"+book.ID)
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook returns the stored document after the update.
//
// @Summary      Update a book (admin only)
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Book ID"
// @Param        body  body      bookRequest  true  "Book"
// @Success      200   {object}  domain.Book
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /books/{id} [put]
func (h *BookHandler) UpdateBook(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.service.UpdateBook(c.Request().Context(), actor, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook
//
// @Summary      Delete a book (admin only)
// @Tags         books
// @Security     BearerAuth
// @Param        id   path  string  true  "Book ID"
// @Success      204
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteBook(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
