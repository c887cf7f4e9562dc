// Package redis connects to the Redis instance used as the fast plan
// preference cache in front of Postgres.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
package redis
