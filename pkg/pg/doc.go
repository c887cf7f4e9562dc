// Package pg bootstraps the Postgres layer behind the invite and preference
// stores: pool creation with startup retry, a health-check closure, embedded
// goose migrations and the pgx error helpers the stores rely on.
package pg
