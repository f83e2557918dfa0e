package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/pkg/metrics"
)

// resolveActor re-loads the claimed identity from the credential store so
// authorization decisions use the current admin flag, not the one baked into
// the caller's token.
func resolveActor(ctx context.Context, users ports.UserRepository, claimed *domain.Identity) (*domain.Identity, error) {
	if claimed == nil || claimed.ID == "" {
		return nil, domain.ErrUnauthenticated
	}

	u, err := users.FindByID(ctx, claimed.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve actor: %w", err)
	}
	return u.Identity(), nil
}

// requireAdmin resolves the actor and applies allow. gate labels the denial metric.
func requireAdmin(ctx context.Context, users ports.UserRepository, claimed *domain.Identity, gate string, allow func(*domain.Identity) bool) (*domain.Identity, error) {
	actor, err := resolveActor(ctx, users, claimed)
	if err != nil {
		return nil, err
	}
	if !allow(actor) {
		metrics.AuthorizationDeniedTotal.WithLabelValues(gate).Inc()
		return nil, domain.ErrForbidden
	}
	return actor, nil
}
