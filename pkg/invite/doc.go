// Package invite provides the two low-precedence plan sources consumed by
// the entitlement resolver: operator-issued beta invites (email-keyed,
// time-bounded) and persisted plan preferences (user-keyed, the fallback of
// last resort on clients without a billing SDK).
//
// Three backends implement the source interfaces: an in-memory store for
// tests and single-node use, Postgres (schema shipped as embedded goose
// migrations in Migrations), and a Redis read-through for the preference
// fallback. Email matching is case-insensitive everywhere and invite expiry
// is compared against now on every read.
package invite
