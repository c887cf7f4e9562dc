package invite

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/invoicemate/entitlementkit/pkg/entitlement"
	redisconn "github.com/invoicemate/entitlementkit/pkg/redis"
)

// redisPreferenceSource serves the persisted-plan fallback from Redis.
// Useful on web deployments where the backend mirrors subscription rows into
// a cache the edge can read without a database round trip.
type redisPreferenceSource struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisPreferenceSource returns a Redis-backed
// entitlement.PreferenceSource. Keys are "<prefix><user_id>" holding the
// plain plan string; a missing key means no preference.
func NewRedisPreferenceSource(client *redis.Client, keyPrefix string) *redisPreferenceSource {
	if client == nil {
		panic("invite: redis.Client is required")
	}
	if keyPrefix == "" {
		keyPrefix = "plan_pref:"
	}
	return &redisPreferenceSource{client: client, keyPrefix: keyPrefix}
}

// DialRedisPreferenceSource connects to Redis from config and wraps the
// client in a preference source. Convenience for call sites that do not
// share the client with anything else.
func DialRedisPreferenceSource(ctx context.Context, cfg redisconn.Config, keyPrefix string) (*redisPreferenceSource, error) {
	client, err := redisconn.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisPreferenceSource(client, keyPrefix), nil
}

// PreferredPlan returns the cached plan for the user.
func (s *redisPreferenceSource) PreferredPlan(ctx context.Context, userID uuid.UUID) (entitlement.Plan, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+userID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return entitlement.PlanFree, entitlement.ErrPreferenceNotFound
	}
	if err != nil {
		return entitlement.PlanFree, errors.Join(ErrQueryFailed, err)
	}
	return entitlement.ParsePlan(raw)
}
