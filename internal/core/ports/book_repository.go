package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	List(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	Create(ctx context.Context, b *domain.Book) (*domain.Book, error)
	// Update replaces the editable fields and returns the stored document.
	Update(ctx context.Context, id string, b *domain.Book) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
}
