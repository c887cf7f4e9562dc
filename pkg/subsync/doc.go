// Package subsync keeps the backend-of-record in agreement with the billing
// provider's truth.
//
// After login or a successful purchase, Synchronizer.Sync links the anonymous
// purchase identity to the authenticated account, fetches a fresh entitlement
// snapshot and upserts it through the backend sync endpoint. The sequence is
// strictly linear:
//
//  1. no billing capability: success with plan free, nothing to do;
//  2. identity link, best-effort (the user may already be linked);
//  3. fresh customer info; none means success with plan free;
//  4. skip unless at least one entitlement exists, active or expired
//     (expired ones still sync so the backend can expire stale rows);
//  5. no session: deferred, zero backend calls, reconciled on next login;
//  6. backend upsert, keyed by user id and therefore idempotent.
//
// A correlation id is minted per attempt and threaded through every log line
// and the backend request, so one purchase event can be traced end to end
// across asynchronous boundaries.
//
// Backend failures retry inside the call with constant backoff and a fixed
// attempt budget, then surface as *SyncError. The platform-side purchase is
// never rolled back; only the sync attempt failed.
package subsync
