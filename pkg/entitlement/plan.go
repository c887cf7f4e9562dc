package entitlement

import "fmt"

// Plan is a subscription tier. Plans form a total order (free < pro < trade)
// used to pick a winner when several entitlements are active at once.
type Plan string

const (
	PlanFree  Plan = "free"
	PlanPro   Plan = "pro"
	PlanTrade Plan = "trade"
)

// planRank defines the precedence order. Higher rank wins among active
// entitlements; rank never overrides activity.
var planRank = map[Plan]int{
	PlanFree:  0,
	PlanPro:   1,
	PlanTrade: 2,
}

// Entitlement identifiers are fixed per tier and independent of the product
// id that unlocked them. They key Entitlements.Active/All.
const (
	EntitlementPro   = "pro"
	EntitlementTrade = "trade"
)

// entitlementPlans maps provider entitlement identifiers to tiers.
var entitlementPlans = map[string]Plan{
	EntitlementPro:   PlanPro,
	EntitlementTrade: PlanTrade,
}

// ParsePlan converts a wire value into a Plan.
// Returns ErrUnknownPlan for anything outside the known set.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if _, ok := planRank[p]; !ok {
		return PlanFree, fmt.Errorf("%w: %q", ErrUnknownPlan, s)
	}
	return p, nil
}

// Rank returns the plan's position in the precedence order.
// Unknown plans rank below free so a corrupted value can never grant access.
func (p Plan) Rank() int {
	if r, ok := planRank[p]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether p grants at least the access level of other.
func (p Plan) AtLeast(other Plan) bool {
	return p.Rank() >= other.Rank()
}

// IsPaid reports whether the plan is a paid tier.
func (p Plan) IsPaid() bool {
	return p.Rank() > planRank[PlanFree]
}

func (p Plan) String() string {
	return string(p)
}

// PlanForEntitlement maps a provider entitlement identifier to its tier.
// Unknown identifiers map to free.
func PlanForEntitlement(id string) Plan {
	if p, ok := entitlementPlans[id]; ok {
		return p
	}
	return PlanFree
}
