package ports

import (
	"context"

	"github.com/bookhive/bookstore-api/internal/core/domain"
)

// RoleEventRepository persists the admin-grant audit trail.
type RoleEventRepository interface {
	InsertRoleEvent(ctx context.Context, event *domain.RoleEvent) error
}
