package invite

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

// inMemSource keeps invites and preferences in memory. Used in tests and on
// single-node deployments without Postgres.
type inMemSource struct {
	mu      sync.RWMutex
	invites map[string]BetaInvite // keyed by lowercased email
	prefs   map[uuid.UUID]entitlement.Plan
}

// NewInMemSource returns an in-memory source preloaded with the given
// invites. It implements both entitlement.InviteSource and
// entitlement.PreferenceSource.
func NewInMemSource(invites ...BetaInvite) *inMemSource {
	s := &inMemSource{
		invites: make(map[string]BetaInvite, len(invites)),
		prefs:   make(map[uuid.UUID]entitlement.Plan),
	}
	for _, inv := range invites {
		s.invites[strings.ToLower(inv.Email)] = inv
	}
	return s
}

// InvitePlan returns the plan of a non-expired invite for the email.
func (s *inMemSource) InvitePlan(_ context.Context, email string, now time.Time) (entitlement.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invites[strings.ToLower(email)]
	if !ok || inv.Expired(now) {
		return entitlement.PlanFree, entitlement.ErrInviteNotFound
	}
	return inv.Plan, nil
}

// PreferredPlan returns the stored plan for the user.
func (s *inMemSource) PreferredPlan(_ context.Context, userID uuid.UUID) (entitlement.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.prefs[userID]
	if !ok {
		return entitlement.PlanFree, entitlement.ErrPreferenceNotFound
	}
	return plan, nil
}

// SetPreference stores a plan preference row.
func (s *inMemSource) SetPreference(_ context.Context, pref PlanPreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[pref.UserID] = pref.Plan
	return nil
}

// Invites returns a copy of the loaded invites keyed by lowercased email.
func (s *inMemSource) Invites() map[string]BetaInvite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.invites)
}
