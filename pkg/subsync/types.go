package subsync

import (
	"time"

	"github.com/google/uuid"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

// Status is the backend-of-record's view of a subscription lifecycle.
type Status string

const (
	StatusActive    Status = "active"
	StatusTrialing  Status = "trialing"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// PersistedSubscription is the backend-owned row this subsystem upserts via
// the sync call. It is never read here as a first-choice source; on clients
// without a billing SDK the resolver consults only its plan, through the
// preference fallback.
type PersistedSubscription struct {
	UserID             uuid.UUID
	Plan               entitlement.Plan
	Status             Status
	Provider           string
	ProviderCustomerID string
	CurrentPeriodEnd   *time.Time
}

// Session is the authenticated context a sync runs under. A nil session
// means the purchase happened before login and the sync is deferred.
type Session struct {
	UserID      uuid.UUID
	AccessToken string
}

// Result is the outcome of one Sync call.
type Result struct {
	Plan           entitlement.Plan
	Status         Status
	ExpirationDate *time.Time
	WillRenew      bool

	// Synced is true only when the backend row was actually written.
	Synced bool
	// Deferred is true when no session was available; the next post-login
	// sync reconciles. A purchase is never lost this way because the store
	// remains the durable source of truth while the backend lags.
	Deferred bool

	CorrelationID string
}
