package invite

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
	"github.com/invoicemate/entitlementkit/pkg/pg"
)

// Migrations holds the schema for the invite and preference tables,
// applied with pg.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// pgSource reads invites and preferences from Postgres.
type pgSource struct {
	pool *pgxpool.Pool
}

// NewPgSource returns a Postgres-backed source. It implements both
// entitlement.InviteSource and entitlement.PreferenceSource.
func NewPgSource(pool *pgxpool.Pool) *pgSource {
	if pool == nil {
		panic("invite: pgxpool.Pool is required")
	}
	return &pgSource{pool: pool}
}

// InvitePlan returns the plan of a non-expired invite for the email.
// Matching is case-insensitive and expiry is evaluated against the given
// instant, never a cached one.
func (s *pgSource) InvitePlan(ctx context.Context, email string, now time.Time) (entitlement.Plan, error) {
	const query = `
		SELECT plan FROM beta_invites
		WHERE lower(email) = lower($1) AND expires_at > $2
		LIMIT 1`

	var raw string
	if err := s.pool.QueryRow(ctx, query, email, now).Scan(&raw); err != nil {
		if pg.IsNotFoundError(err) {
			return entitlement.PlanFree, entitlement.ErrInviteNotFound
		}
		return entitlement.PlanFree, errors.Join(ErrQueryFailed, err)
	}
	return entitlement.ParsePlan(raw)
}

// PreferredPlan returns the stored plan for the user.
func (s *pgSource) PreferredPlan(ctx context.Context, userID uuid.UUID) (entitlement.Plan, error) {
	const query = `SELECT plan FROM plan_preferences WHERE user_id = $1`

	var raw string
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if pg.IsNotFoundError(err) {
			return entitlement.PlanFree, entitlement.ErrPreferenceNotFound
		}
		return entitlement.PlanFree, errors.Join(ErrQueryFailed, err)
	}
	return entitlement.ParsePlan(raw)
}

// SetPreference upserts a plan preference row.
func (s *pgSource) SetPreference(ctx context.Context, pref PlanPreference) error {
	const query = `
		INSERT INTO plan_preferences (user_id, plan, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, updated_at = now()`

	if _, err := s.pool.Exec(ctx, query, pref.UserID, pref.Plan.String()); err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}
