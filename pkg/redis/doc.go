// Package redis connects to Redis with go-redis/v9. The client backs the
// shared tenant cache (tenant.NewRedisCache) and the readiness probe.
package redis
