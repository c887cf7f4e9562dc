package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SnapshotSource provides the billing provider's entitlement snapshot.
// Implemented by the billing adapter; a null provider reports Available false.
type SnapshotSource interface {
	// Available reports whether the billing platform exists on this client.
	// Must be cheap and synchronous.
	Available() bool

	// CustomerInfo returns the provider's current truth, or nil when the
	// platform is unavailable or unconfigured.
	CustomerInfo(ctx context.Context) (*CustomerInfo, error)
}

// InviteSource looks up a time-bounded operator-issued plan override by
// email. Matching is case-insensitive and must compare expiry against the
// given instant on every read.
type InviteSource interface {
	// InvitePlan returns the plan of a non-expired invite for the email.
	// Returns ErrInviteNotFound when no such invite exists.
	InvitePlan(ctx context.Context, email string, now time.Time) (Plan, error)
}

// PreferenceSource reads the persisted plan row for a user. It is the
// lowest-trust fallback, consulted only on clients with no billing SDK.
type PreferenceSource interface {
	// PreferredPlan returns the stored plan for the user.
	// Returns ErrPreferenceNotFound when no row exists.
	PreferredPlan(ctx context.Context, userID uuid.UUID) (Plan, error)
}

// Source identifies which input decided a resolution.
type Source string

const (
	SourceEntitlement Source = "entitlement"
	SourceBetaInvite  Source = "beta_invite"
	SourcePreference  Source = "preference"
	SourceDefault     Source = "default"
)

// Resolution is the outcome of one Resolve call.
type Resolution struct {
	Plan   Plan
	Source Source
}

// Resolver answers "what plan does this principal have right now" as a
// side-effect-free function of up to three optional sources. Precedence:
// billing snapshot, then beta invite, then persisted preference, then free.
// The snapshot wins because it is the only source trusted without a login
// (store policy requires purchases to work pre-login); invites are an
// operator override that must beat a stale persisted row.
//
// Any source error fails open to the next step and ultimately to free: the
// resolver never blocks the app and never errors to the caller.
type Resolver struct {
	snapshot SnapshotSource
	invites  InviteSource
	prefs    PreferenceSource
	logger   *slog.Logger
	now      func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithSnapshotSource wires the billing adapter as the primary source.
func WithSnapshotSource(s SnapshotSource) ResolverOption {
	return func(r *Resolver) { r.snapshot = s }
}

// WithInviteSource wires the beta invite lookup.
func WithInviteSource(s InviteSource) ResolverOption {
	return func(r *Resolver) { r.invites = s }
}

// WithPreferenceSource wires the persisted preference fallback.
func WithPreferenceSource(s PreferenceSource) ResolverOption {
	return func(r *Resolver) { r.prefs = s }
}

// WithLogger sets the logger used for swallowed source errors.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock overrides the invite-expiry clock. Intended for tests.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a Resolver. All sources are optional; a resolver with
// no sources always resolves to free.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks the precedence cascade and returns the first non-free
// result. Email and userID are optional; pass "" and uuid.Nil when unknown.
func (r *Resolver) Resolve(ctx context.Context, email string, userID uuid.UUID) Resolution {
	if r.snapshot != nil && r.snapshot.Available() {
		ci, err := r.snapshot.CustomerInfo(ctx)
		switch {
		case err != nil:
			r.logger.WarnContext(ctx, "entitlement snapshot fetch failed, falling through",
				slog.String("error", err.Error()))
		case ci != nil:
			if plan := HighestActivePlan(ci); plan.IsPaid() {
				return Resolution{Plan: plan, Source: SourceEntitlement}
			}
		}
	}

	if r.invites != nil && email != "" {
		plan, err := r.invites.InvitePlan(ctx, email, r.now())
		switch {
		case errors.Is(err, ErrInviteNotFound):
			// expected for most users
		case err != nil:
			r.logger.WarnContext(ctx, "beta invite lookup failed, falling through",
				slog.String("error", err.Error()))
		case plan.IsPaid():
			return Resolution{Plan: plan, Source: SourceBetaInvite}
		}
	}

	if r.prefs != nil && userID != uuid.Nil {
		plan, err := r.prefs.PreferredPlan(ctx, userID)
		switch {
		case errors.Is(err, ErrPreferenceNotFound):
			// no row, fall through to free
		case err != nil:
			r.logger.WarnContext(ctx, "plan preference lookup failed, falling through",
				slog.String("error", err.Error()))
		case plan.IsPaid():
			return Resolution{Plan: plan, Source: SourcePreference}
		}
	}

	return Resolution{Plan: PlanFree, Source: SourceDefault}
}
