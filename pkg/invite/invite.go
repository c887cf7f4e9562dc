package invite

import (
	"time"

	"github.com/google/uuid"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

// BetaInvite is a manually issued, time-bounded plan override keyed by
// email, independent of authentication state. Invites are created by an
// operator tool and read-only here; they expire naturally, so every read
// compares ExpiresAt against now.
type BetaInvite struct {
	Email     string
	Plan      entitlement.Plan
	ExpiresAt time.Time
}

// Expired reports whether the invite has lapsed at the given instant.
func (i BetaInvite) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// PlanPreference is the persisted plan row for a user: the lowest-trust
// fallback, consulted only on clients with no billing SDK.
type PlanPreference struct {
	UserID uuid.UUID
	Plan   entitlement.Plan
}
