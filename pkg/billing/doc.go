// Package billing wraps the platform in-app-purchase store behind a small
// Provider interface: configure, offerings, purchase, restore, customer info
// and identity linking.
//
// Two variants exist and are selected once at startup by NewProvider: Client,
// backed by the store REST API, and a no-op provider for clients without
// billing capability. Call sites depend on Provider and never probe for SDK
// presence.
//
// The adapter's failure policy:
//
//   - Platform unavailable is never an error; every call has an explicit
//     no-capability result (empty offerings, nil customer info).
//   - Not configured is a caller bug returned as ErrNotConfigured for the
//     operations that need an identity; read paths degrade silently instead.
//   - User cancellation is data (PurchaseResult.UserCancelled), never an
//     error, so it cannot leak into user-facing error surfaces.
//   - A product id absent from every offering yields a ProductNotFoundError
//     listing what was actually available.
//
// Configure is idempotent and the configured flag only ever transitions
// false to true; there is no reset.
package billing
