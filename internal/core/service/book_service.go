package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/pkg/metrics"
)

type BookService struct {
	books  ports.BookRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewBookService(books ports.BookRepository, users ports.UserRepository, logger zerolog.Logger) *BookService {
	return &BookService{books: books, users: users, logger: logger}
}

// ListBooks returns the catalog, optionally narrowed to one category.
func (s *BookService) ListBooks(ctx context.Context, filter domain.BookFilter) ([]*domain.Book, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	books, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *BookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

// CreateBook adds a book. Repeated calls create duplicates.
func (s *BookService) CreateBook(ctx context.Context, actor *domain.Identity, in ports.BookInput) (*domain.Book, error) {
	current, err := requireAdmin(ctx, s.users, actor, "mutate_book", domain.CanMutateBook)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	now := time.Now().UTC()
	book := toBook(in)
	book.CreatedAt = now
	book.UpdatedAt = now
	if err := book.Validate(); err != nil {
		return nil, err
	}

	created, err := s.books.Create(ctx, book)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create book")
		return nil, fmt.Errorf("create book: %w", err)
	}

	metrics.BookMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("book_id", created.ID).Str("actor_id", current.ID).Msg("book created")
	return created, nil
}

// UpdateBook replaces the editable fields and returns the stored document, so
// clients refresh from the server's representation rather than their payload.
func (s *BookService) UpdateBook(ctx context.Context, actor *domain.Identity, id string, in ports.BookInput) (*domain.Book, error) {
	current, err := requireAdmin(ctx, s.users, actor, "mutate_book", domain.CanMutateBook)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	book := toBook(in)
	book.UpdatedAt = time.Now().UTC()
	if err := book.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.books.Update(ctx, id, book)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	metrics.BookMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("book_id", id).Str("actor_id", current.ID).Msg("book updated")
	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, actor *domain.Identity, id string) error {
	current, err := requireAdmin(ctx, s.users, actor, "mutate_book", domain.CanMutateBook)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	metrics.BookMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("book_id", id).Str("actor_id", current.ID).Msg("book deleted")
	return nil
}

func toBook(in ports.BookInput) *domain.Book {
	return &domain.Book{
		Name:        strings.TrimSpace(in.Name),
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
	}
}
