package entitlement

import (
	"maps"
	"slices"
	"time"
)

// PeriodType describes which billing phase an entitlement is in.
type PeriodType string

const (
	PeriodNormal PeriodType = "normal"
	PeriodTrial  PeriodType = "trial"
	PeriodIntro  PeriodType = "intro"
)

// Entitlement is an immutable snapshot of one capability grant as reported by
// the billing provider. Snapshots are never mutated, only replaced wholesale
// by a fresh fetch.
type Entitlement struct {
	Identifier        string
	IsActive          bool
	ProductIdentifier string
	ExpirationDate    *time.Time // nil for lifetime grants
	PeriodType        PeriodType
	WillRenew         bool
	IsSandbox         bool
}

// Entitlements groups a customer's grants by activity.
// All includes expired grants; Active is the subset currently in effect.
type Entitlements struct {
	Active map[string]Entitlement
	All    map[string]Entitlement
}

// CustomerInfo is the billing provider's ground truth for what the user
// actually bought. It is produced only by the billing adapter; nothing in
// this module fabricates one.
type CustomerInfo struct {
	OriginalAppUserID    string
	ActiveSubscriptions  []string
	Entitlements         Entitlements
	LatestExpirationDate *time.Time
}

// Clone returns a deep copy so callers can hold snapshots without aliasing
// the adapter's maps.
func (ci *CustomerInfo) Clone() *CustomerInfo {
	if ci == nil {
		return nil
	}
	cp := &CustomerInfo{
		OriginalAppUserID:   ci.OriginalAppUserID,
		ActiveSubscriptions: slices.Clone(ci.ActiveSubscriptions),
		Entitlements: Entitlements{
			Active: maps.Clone(ci.Entitlements.Active),
			All:    maps.Clone(ci.Entitlements.All),
		},
	}
	if ci.LatestExpirationDate != nil {
		t := *ci.LatestExpirationDate
		cp.LatestExpirationDate = &t
	}
	return cp
}

// HasEntitlementHistory reports whether the customer has ever held any
// entitlement, active or expired. The synchronizer uses this to decide
// whether there is anything worth persisting: expired grants still sync so
// the backend can transition a stale row to expired instead of leaving it
// active forever.
func (ci *CustomerInfo) HasEntitlementHistory() bool {
	return ci != nil && len(ci.Entitlements.All) > 0
}

// HighestActivePlan folds the active entitlements into a single plan using
// the tier order. Activity gates eligibility: an expired trade entitlement
// never outranks an active pro one. Returns free when nothing is active.
func HighestActivePlan(ci *CustomerInfo) Plan {
	if ci == nil {
		return PlanFree
	}
	best := PlanFree
	for id, ent := range ci.Entitlements.Active {
		if !ent.IsActive {
			continue
		}
		if p := PlanForEntitlement(id); p.Rank() > best.Rank() {
			best = p
		}
	}
	return best
}
