package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// SignupInput carries a self-service registration. AdminKey is optional.
type SignupInput struct {
	Fullname string
	Email    string
	Password string
	AdminKey string
}

// CreateAdminInput carries the dashboard "create admin" form.
type CreateAdminInput struct {
	Fullname string
	Email    string
	Password string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CreateAdmin(ctx context.Context, actor *domain.Identity, in CreateAdminInput) (*domain.User, error)
}

// UserService covers the admin-only user management operations.
type UserService interface {
	ListUsers(ctx context.Context, actor *domain.Identity) ([]*domain.User, error)
	SetUserAdmin(ctx context.Context, actor *domain.Identity, userID string, isAdmin bool) (*domain.User, error)
}
