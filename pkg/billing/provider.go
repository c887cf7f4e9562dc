package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

// Provider isolates all platform-specific purchase mechanics behind a small
// interface. Two variants exist: Client (a real store-backed provider) and
// the no-op provider for clients with no billing capability. The variant is
// selected once at startup; call sites never probe for SDK presence.
//
// Failure semantics: an unsupported platform degrades every call to a
// no-capability result, never an error. Genuine provider/network errors come
// back as typed failures with readable messages.
type Provider interface {
	// Available reports whether this client has billing capability.
	// Cheap and synchronous; callers check it before anything else and treat
	// false as a hard "no-op, resolve free" branch.
	Available() bool

	// Configure initializes the provider for the given app user id.
	// Idempotent: a second call is a silent no-op, not an error and not a
	// re-initialization. An empty appUserID starts an anonymous identity.
	Configure(ctx context.Context, appUserID string) error

	// Offerings returns the purchasable offerings. Returns an empty slice,
	// not an error, when unavailable or unconfigured.
	Offerings(ctx context.Context) ([]Offering, error)

	// PurchaseProduct locates the product across every offering and runs the
	// purchase. A missing product yields a ProductNotFoundError; user
	// cancellation yields PurchaseResult.UserCancelled, never an error.
	PurchaseProduct(ctx context.Context, productID string) (*PurchaseResult, error)

	// RestorePurchases replays historical purchases into the current
	// identity. Nothing to restore is success with no change.
	RestorePurchases(ctx context.Context) (*PurchaseResult, error)

	// CustomerInfo returns the provider's current truth, or nil when
	// unavailable or unconfigured. No caching beyond what the store itself
	// does.
	CustomerInfo(ctx context.Context) (*entitlement.CustomerInfo, error)

	// LinkUser merges the anonymous purchase identity into the authenticated
	// account identity. Safe to repeat with the same id.
	LinkUser(ctx context.Context, accountID uuid.UUID) error
}

// Money is an amount in the smallest currency unit.
type Money struct {
	Amount   int64
	Currency string
}

// StoreProduct is one purchasable product as listed by the store.
type StoreProduct struct {
	Identifier  string
	Title       string
	Description string
	Price       Money
}

// Package wraps exactly one product inside an offering.
type Package struct {
	Identifier string
	Product    StoreProduct
}

// Offering is a store-side grouping of packages presented together.
type Offering struct {
	Identifier string
	Current    bool
	Packages   []Package
}

// PurchaseResult is the outcome of a purchase or restore.
// UserCancelled is a distinguished outcome, deliberately data rather than an
// error so it never reaches user-facing error surfaces.
type PurchaseResult struct {
	CustomerInfo  *entitlement.CustomerInfo
	UserCancelled bool
}

// findProduct searches every offering for a product id. Products may live in
// non-default offerings, so the search is never limited to the current one.
func findProduct(offerings []Offering, productID string) (StoreProduct, bool) {
	for _, off := range offerings {
		for _, pkg := range off.Packages {
			if pkg.Product.Identifier == productID {
				return pkg.Product, true
			}
		}
	}
	return StoreProduct{}, false
}
