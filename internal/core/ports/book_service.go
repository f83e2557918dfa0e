package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// BookInput is the editable part of a book, shared by create and update.
type BookInput struct {
	Name        string
	Title       string
	Category    string
	Price       float64
	Description string
	Image       string
}

// BookService defines catalog use cases. Mutations take the acting identity
// and are rejected unless it is an admin in the credential store.
type BookService interface {
	ListBooks(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	CreateBook(ctx context.Context, actor *domain.Identity, in BookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, actor *domain.Identity, id string, in BookInput) (*domain.Book, error)
	DeleteBook(ctx context.Context, actor *domain.Identity, id string) error
}
