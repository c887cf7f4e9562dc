package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
	"github.com/invoicemate/entitlementkit/pkg/gate"
)

func fixedPlan(plan entitlement.Plan) gate.PlanResolver {
	return gate.ResolverFunc(func(context.Context, string, uuid.UUID) entitlement.Resolution {
		return entitlement.Resolution{Plan: plan, Source: entitlement.SourceDefault}
	})
}

func fixedCount(n int64) gate.CounterFunc {
	return func(context.Context, uuid.UUID) (int64, error) { return n, nil }
}

func TestGate_CanCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("anonymous users are allowed but ephemeral", func(t *testing.T) {
		t.Parallel()
		g := gate.New(fixedPlan(entitlement.PlanFree))

		decision, err := g.CanCreate(ctx, gate.ResourceInvoices, "", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.True(t, decision.Ephemeral)
	})

	t.Run("free plan under the invoice cap", func(t *testing.T) {
		t.Parallel()
		g := gate.New(fixedPlan(entitlement.PlanFree),
			gate.WithCounter(gate.ResourceInvoices, fixedCount(4)))

		decision, err := g.CanCreate(ctx, gate.ResourceInvoices, "u@example.com", userID)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, int64(4), decision.Current)
		assert.Equal(t, int64(5), decision.Limit)
		assert.False(t, decision.Ephemeral)
	})

	t.Run("free plan at the invoice cap", func(t *testing.T) {
		t.Parallel()
		g := gate.New(fixedPlan(entitlement.PlanFree),
			gate.WithCounter(gate.ResourceInvoices, fixedCount(5)))

		decision, err := g.CanCreate(ctx, gate.ResourceInvoices, "u@example.com", userID)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Contains(t, decision.Reason, "limit reached")
	})

	t.Run("paid plans skip the counter entirely", func(t *testing.T) {
		t.Parallel()
		// No counter registered: unlimited resources must not need one.
		g := gate.New(fixedPlan(entitlement.PlanPro))

		decision, err := g.CanCreate(ctx, gate.ResourceInvoices, "u@example.com", userID)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, gate.Unlimited, decision.Limit)
	})

	t.Run("missing counter for a capped resource", func(t *testing.T) {
		t.Parallel()
		g := gate.New(fixedPlan(entitlement.PlanFree))

		_, err := g.CanCreate(ctx, gate.ResourceInvoices, "u@example.com", userID)
		assert.ErrorIs(t, err, gate.ErrNoCounterRegistered)
	})

	t.Run("unknown resource", func(t *testing.T) {
		t.Parallel()
		g := gate.New(fixedPlan(entitlement.PlanFree))

		_, err := g.CanCreate(ctx, gate.Resource("widgets"), "u@example.com", userID)
		assert.ErrorIs(t, err, gate.ErrInvalidResource)
	})

	t.Run("counter failure is reported, not swallowed", func(t *testing.T) {
		t.Parallel()
		countErr := errors.New("db offline")
		g := gate.New(fixedPlan(entitlement.PlanFree),
			gate.WithCounter(gate.ResourceInvoices, func(context.Context, uuid.UUID) (int64, error) {
				return 0, countErr
			}))

		_, err := g.CanCreate(ctx, gate.ResourceInvoices, "u@example.com", userID)
		assert.ErrorIs(t, err, gate.ErrFailedToCountUsage)
		assert.ErrorIs(t, err, countErr)
	})
}

func TestGate_Capabilities(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		plan     entitlement.Plan
		vat      bool
		cis      bool
		branding bool
	}{
		{entitlement.PlanFree, false, false, false},
		{entitlement.PlanPro, true, false, true},
		{entitlement.PlanTrade, true, true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.plan.String(), func(t *testing.T) {
			t.Parallel()
			g := gate.New(fixedPlan(tt.plan))

			assert.Equal(t, tt.vat, g.CanUseVAT(ctx, "u@example.com", userID))
			assert.Equal(t, tt.cis, g.CanUseCIS(ctx, "u@example.com", userID))
			assert.Equal(t, tt.branding, g.CanUseBranding(ctx, "u@example.com", userID))
		})
	}
}

func TestLimitsFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(5), gate.LimitsFor(entitlement.PlanFree).MaxInvoices)
	assert.Equal(t, gate.Unlimited, gate.LimitsFor(entitlement.PlanPro).MaxInvoices)
	assert.Equal(t, gate.Unlimited, gate.LimitsFor(entitlement.PlanTrade).MaxInvoices)

	// Unknown plans fall back to free limits, never to a paid tier.
	assert.Equal(t, gate.LimitsFor(entitlement.PlanFree), gate.LimitsFor(entitlement.Plan("platinum")))
}

func TestNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { gate.New(nil) })
	assert.Panics(t, func() {
		gate.New(fixedPlan(entitlement.PlanFree),
			gate.WithCounter(gate.ResourceInvoices, nil))
	})
	assert.Panics(t, func() {
		gate.New(fixedPlan(entitlement.PlanFree),
			gate.WithCounter(gate.ResourceInvoices, fixedCount(0)),
			gate.WithCounter(gate.ResourceInvoices, fixedCount(0)))
	})
}
