package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/ports"
	"github.com/bookhive/bookstore-api/internal/pkg/metrics"
)

// grantRecorder applies the postcondition shared by every admin-flag change:
// an audit event is written and the change is counted. Audit failures are
// logged and swallowed; the flag itself is already persisted.
type grantRecorder struct {
	events ports.RoleEventRepository
	log    zerolog.Logger
}

func (r grantRecorder) record(ctx context.Context, userID string, grant domain.AdminGrant, isAdmin bool) {
	action := "grant"
	if !isAdmin {
		action = "revoke"
	}
	metrics.AdminGrantsTotal.WithLabelValues(string(grant.Variant), action).Inc()

	event := &domain.RoleEvent{
		UserID:     userID,
		ActorID:    grant.ActorID(),
		Variant:    grant.Variant,
		IsAdmin:    isAdmin,
		OccurredAt: time.Now().UTC(),
	}
	if r.events != nil {
		if err := r.events.InsertRoleEvent(ctx, event); err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("failed to insert role event")
		}
	}

	r.log.Info().
		Str("user_id", userID).
		Str("actor_id", event.ActorID).
		Str("variant", string(grant.Variant)).
		Bool("is_admin", isAdmin).
		Msg("admin role changed")
}
