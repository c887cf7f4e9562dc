package gate

import "github.com/invoicemate/entitlementkit/pkg/entitlement"

// Resource is a countable user resource type.
type Resource string

const (
	ResourceInvoices  Resource = "invoices"
	ResourceCustomers Resource = "customers"
)

// Unlimited indicates no limit for a resource.
const Unlimited int64 = -1

// Limits are the concrete capability and quota values derived from a plan.
// A pure function of Plan; never persisted.
type Limits struct {
	MaxInvoices    int64
	CanUseVAT      bool
	CanUseCIS      bool
	CanUseBranding bool
}

var planLimits = map[entitlement.Plan]Limits{
	entitlement.PlanFree: {
		MaxInvoices: 5,
	},
	entitlement.PlanPro: {
		MaxInvoices:    Unlimited,
		CanUseVAT:      true,
		CanUseBranding: true,
	},
	entitlement.PlanTrade: {
		MaxInvoices:    Unlimited,
		CanUseVAT:      true,
		CanUseCIS:      true,
		CanUseBranding: true,
	},
}

// LimitsFor returns the limits table entry for a plan.
// Unknown plans get the free tier's limits, consistent with failing open to
// lowest privilege.
func LimitsFor(plan entitlement.Plan) Limits {
	if l, ok := planLimits[plan]; ok {
		return l
	}
	return planLimits[entitlement.PlanFree]
}

func (l Limits) limitFor(res Resource) (int64, bool) {
	switch res {
	case ResourceInvoices:
		return l.MaxInvoices, true
	case ResourceCustomers:
		// Customers are never quota-limited on any tier.
		return Unlimited, true
	default:
		return 0, false
	}
}
