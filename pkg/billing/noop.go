package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
)

// noopProvider serves platforms with no billing capability (e.g. a web
// client). Every operation degrades to the documented no-capability result;
// nothing here is an error condition.
type noopProvider struct{}

// NewNoopProvider returns the null Provider variant.
func NewNoopProvider() Provider {
	return noopProvider{}
}

func (noopProvider) Available() bool { return false }

func (noopProvider) Configure(context.Context, string) error { return nil }

func (noopProvider) Offerings(context.Context) ([]Offering, error) { return nil, nil }

func (noopProvider) PurchaseProduct(context.Context, string) (*PurchaseResult, error) {
	return &PurchaseResult{}, nil
}

func (noopProvider) RestorePurchases(context.Context) (*PurchaseResult, error) {
	return &PurchaseResult{}, nil
}

func (noopProvider) CustomerInfo(context.Context) (*entitlement.CustomerInfo, error) {
	return nil, nil
}

func (noopProvider) LinkUser(context.Context, uuid.UUID) error { return nil }
