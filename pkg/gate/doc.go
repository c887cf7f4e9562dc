// Package gate translates a resolved plan into concrete capability and quota
// values, and answers admission-control questions.
//
// LimitsFor is a pure table lookup from Plan to Limits (invoice quota and the
// VAT/CIS/branding capability flags). Gate.CanCreate adds usage counting on
// top: unlimited plans always pass, limited plans pass while the registered
// counter stays under the limit, and anonymous callers always pass with an
// Ephemeral warning because their data cannot persist to the backend. The
// gate blocks persistence guarantees, never usage.
package gate
