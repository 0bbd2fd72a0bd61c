// Package redis connects a go-redis client and exposes a readiness probe.
// The client backs the distributed rate limiter store.
package redis
