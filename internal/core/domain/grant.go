package domain

import (
	"crypto/subtle"
	"time"
)

// GrantVariant names how admin rights were obtained.
type GrantVariant string

const (
	// GrantBySecret: the escalation secret was supplied at signup.
	GrantBySecret GrantVariant = "secret"
	// GrantByAdmin: an existing admin created or promoted the user.
	GrantByAdmin GrantVariant = "admin"
)

// AdminGrant is a request to give a user admin rights. Exactly one of Secret
// or Actor is meaningful, depending on Variant.
type AdminGrant struct {
	Variant GrantVariant
	Secret  string
	Actor   *Identity
}

// Authorize checks the grant. configuredSecret is the server's escalation
// secret; an empty value disables the secret variant. Actor must already be
// re-loaded from the credential store.
func (g AdminGrant) Authorize(configuredSecret string) error {
	switch g.Variant {
	case GrantBySecret:
		if configuredSecret == "" || g.Secret == "" {
			return ErrForbidden
		}
		if subtle.ConstantTimeCompare([]byte(g.Secret), []byte(configuredSecret)) != 1 {
			return ErrForbidden
		}
		return nil
	case GrantByAdmin:
		if g.Actor == nil {
			return ErrUnauthenticated
		}
		if !CanViewDashboard(g.Actor) {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// ActorID returns the granting admin's id, or "" for secret grants.
func (g AdminGrant) ActorID() string {
	if g.Variant != GrantByAdmin || g.Actor == nil {
		return ""
	}
	return g.Actor.ID
}

// RoleEvent is the audit record written whenever a user's admin flag is set.
type RoleEvent struct {
	UserID     string
	ActorID    string // empty for secret grants
	Variant    GrantVariant
	IsAdmin    bool
	OccurredAt time.Time
}
