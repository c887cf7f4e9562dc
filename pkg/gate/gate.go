package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

// PlanResolver answers the current plan for a principal. Satisfied by
// entitlement.Resolver.Resolve via ResolverFunc.
type PlanResolver interface {
	Resolve(ctx context.Context, email string, userID uuid.UUID) entitlement.Resolution
}

// ResolverFunc adapts a function to PlanResolver.
type ResolverFunc func(ctx context.Context, email string, userID uuid.UUID) entitlement.Resolution

func (f ResolverFunc) Resolve(ctx context.Context, email string, userID uuid.UUID) entitlement.Resolution {
	return f(ctx, email, userID)
}

// CounterFunc returns the current usage for a user resource. Must be fast;
// it runs on every creation attempt.
type CounterFunc func(ctx context.Context, userID uuid.UUID) (int64, error)

// Decision is the answer to one admission question.
type Decision struct {
	Allowed bool
	Reason  string
	Current int64
	Limit   int64
	// Ephemeral warns that the resource will not persist to the backend
	// because no user identity is available. The gate never blocks usage,
	// only persistence guarantees.
	Ephemeral bool
}

// Gate derives concrete capability and quota values from the resolved plan
// and answers admission-control questions.
type Gate struct {
	resolver PlanResolver
	counters map[Resource]CounterFunc
	logger   *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithCounter registers a usage counter for a resource. Panics on nil fn or
// duplicate registration to force explicit startup configuration.
func WithCounter(res Resource, fn CounterFunc) GateOption {
	return func(g *Gate) {
		if fn == nil {
			panic(fmt.Sprintf("gate: counter for resource %q cannot be nil", res))
		}
		if _, exists := g.counters[res]; exists {
			panic(fmt.Sprintf("gate: counter for resource %q already registered", res))
		}
		g.counters[res] = fn
	}
}

// WithGateLogger sets the gate's logger.
func WithGateLogger(l *slog.Logger) GateOption {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Gate. Panics if resolver is nil.
func New(resolver PlanResolver, opts ...GateOption) *Gate {
	if resolver == nil {
		panic("gate: PlanResolver is required")
	}

	g := &Gate{
		resolver: resolver,
		counters: make(map[Resource]CounterFunc),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Limits resolves the principal's plan and returns its limits table entry.
func (g *Gate) Limits(ctx context.Context, email string, userID uuid.UUID) Limits {
	return LimitsFor(g.resolver.Resolve(ctx, email, userID).Plan)
}

// CanCreate decides whether the user may create one more instance of the
// resource. Anonymous callers (uuid.Nil) are always allowed but warned via
// Ephemeral that nothing will persist to the backend.
func (g *Gate) CanCreate(ctx context.Context, res Resource, email string, userID uuid.UUID) (Decision, error) {
	if userID == uuid.Nil {
		return Decision{Allowed: true, Ephemeral: true, Limit: Unlimited}, nil
	}

	limits := g.Limits(ctx, email, userID)
	limit, ok := limits.limitFor(res)
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrInvalidResource, res)
	}

	if limit == Unlimited {
		return Decision{Allowed: true, Limit: Unlimited}, nil
	}

	counter, ok := g.counters[res]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrNoCounterRegistered, res)
	}

	current, err := counter(ctx, userID)
	if err != nil {
		return Decision{}, errors.Join(ErrFailedToCountUsage, err)
	}

	if current >= limit {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("%s limit reached (%d of %d)", res, current, limit),
			Current: current,
			Limit:   limit,
		}, nil
	}

	return Decision{Allowed: true, Current: current, Limit: limit}, nil
}

// CanUseVAT reports whether the principal's plan includes VAT features.
// Pure table lookup after resolution; no extra I/O.
func (g *Gate) CanUseVAT(ctx context.Context, email string, userID uuid.UUID) bool {
	return g.Limits(ctx, email, userID).CanUseVAT
}

// CanUseCIS reports whether the principal's plan includes CIS deductions.
func (g *Gate) CanUseCIS(ctx context.Context, email string, userID uuid.UUID) bool {
	return g.Limits(ctx, email, userID).CanUseCIS
}

// CanUseBranding reports whether the principal's plan includes custom
// invoice branding.
func (g *Gate) CanUseBranding(ctx context.Context, email string, userID uuid.UUID) bool {
	return g.Limits(ctx, email, userID).CanUseBranding
}
