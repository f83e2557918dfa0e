// Package metrics defines and registers the custom Prometheus metrics for the
// bookstore API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookstore"

// ── Identity metrics ──────────────────────────────────────────────────────────

// SignupsTotal counts accounts created.
// Label:
//   - role: "user" or "admin"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by resulting role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AdminGrantsTotal counts admin flag changes.
// Labels:
//   - variant: "secret" (escalation key at signup) or "admin" (granted by an admin)
//   - action: "grant" or "revoke"
var AdminGrantsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_role_changes_total",
		Help:      "Total number of admin role grants and revocations.",
	},
	[]string{"variant", "action"},
)

// AuthorizationDeniedTotal counts requests rejected by the authorization gate.
// Label:
//   - gate: the predicate that denied (e.g. "dashboard", "mutate_book", "toggle_role")
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by the authorization gate.",
	},
	[]string{"gate"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// BookMutationsTotal counts successful catalog writes.
// Label:
//   - op: "create", "update" or "delete"
var BookMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "book_mutations_total",
		Help:      "Total number of successful book writes, by operation.",
	},
	[]string{"op"},
)

// PurchasesTotal counts simulated checkouts.
// Label:
//   - result: "completed", "duplicate" or "rejected"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of simulated purchases, by result.",
	},
	[]string{"result"},
)
