package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/pkg/metrics"
)

// UserService implements the dashboard's user management.
type UserService struct {
	users  ports.UserRepository
	grants grantRecorder
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, events ports.RoleEventRepository, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		grants: grantRecorder{events: events, log: log},
		log:    log,
	}
}

// ListUsers returns every account. Admin only.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.Identity) ([]*domain.User, error) {
	if _, err := requireAdmin(ctx, s.users, actor, "dashboard", domain.CanViewDashboard); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetUserAdmin grants or revokes admin rights on userID. The actor must be an
// admin and may not revoke its own flag.
func (s *UserService) SetUserAdmin(ctx context.Context, actor *domain.Identity, userID string, isAdmin bool) (*domain.User, error) {
	current, err := resolveActor(ctx, s.users, actor)
	if err != nil {
		return nil, fmt.Errorf("set user admin: %w", err)
	}

	if err := domain.CanSetUserAdmin(current, userID, isAdmin); err != nil {
		metrics.AuthorizationDeniedTotal.WithLabelValues("toggle_role").Inc()
		s.log.Warn().
			Str("actor_id", current.ID).
			Str("user_id", userID).
			Bool("is_admin", isAdmin).
			Err(err).
			Msg("role change rejected")
		return nil, fmt.Errorf("set user admin: %w", err)
	}

	grant := domain.AdminGrant{Variant: domain.GrantByAdmin, Actor: current}
	if err := grant.Authorize(""); err != nil {
		return nil, fmt.Errorf("set user admin: %w", err)
	}

	updated, err := s.users.SetAdmin(ctx, userID, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("set user admin: %w", err)
	}

	s.grants.record(ctx, updated.ID, grant, isAdmin)
	return updated, nil
}
