package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts user and returns it with its assigned ID.
	// Returns domain.ErrUserExists when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// SetAdmin overwrites the admin flag (last write wins) and returns the
	// stored user.
	SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error)
}
