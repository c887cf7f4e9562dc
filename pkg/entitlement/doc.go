// Package entitlement defines the subscription tier model and the plan
// resolution cascade.
//
// A Plan is a totally ordered tier (free < pro < trade). An Entitlement is an
// immutable snapshot of one capability grant as reported by the billing
// provider; CustomerInfo bundles a customer's grants and is never fabricated
// locally.
//
// The Resolver answers "what plan does this principal have right now" from up
// to three optional sources, in strict precedence order:
//
//  1. the billing provider snapshot (highest-tier active entitlement),
//  2. a non-expired beta invite matched by email,
//  3. a persisted plan preference matched by user id,
//  4. free.
//
// Resolution short-circuits on the first non-free result and fails open:
// source errors are logged and swallowed, so uncertainty can never block the
// app or grant unintended access.
//
// # Usage
//
//	resolver := entitlement.NewResolver(
//		entitlement.WithSnapshotSource(billingClient),
//		entitlement.WithInviteSource(inviteStore),
//		entitlement.WithPreferenceSource(prefStore),
//	)
//
//	res := resolver.Resolve(ctx, user.Email, user.ID)
//	if res.Plan.AtLeast(entitlement.PlanPro) {
//		// unlock pro features
//	}
package entitlement
