package billing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingAPIKey  = errors.New("store API key is required")
	ErrMissingBaseURL = errors.New("store API base URL is required")

	// ErrNotConfigured signals a caller bug: Configure was never called.
	// Returned as a typed failure, never panicked.
	ErrNotConfigured = errors.New("billing provider not configured")

	// ErrPurchaseCancelled is the gateway-level signal for a user-dismissed
	// purchase. The Client maps it to PurchaseResult.UserCancelled; it never
	// escapes the adapter.
	ErrPurchaseCancelled = errors.New("purchase cancelled by user")

	// ErrAlreadyLinked marks an identity merge that already happened.
	// Linking is idempotent, so the Client treats it as success.
	ErrAlreadyLinked = errors.New("identity already linked")

	ErrProviderRequestFailed = errors.New("store API request failed")
)

// ProductNotFoundError reports a product id absent from every fetched
// offering, together with what was found, to aid diagnosis.
type ProductNotFoundError struct {
	ProductID string
	Found     []string
}

func (e *ProductNotFoundError) Error() string {
	if len(e.Found) == 0 {
		return fmt.Sprintf("product %q not found: no offerings returned", e.ProductID)
	}
	return fmt.Sprintf("product %q not found in any offering (available: %s)",
		e.ProductID, strings.Join(e.Found, ", "))
}
