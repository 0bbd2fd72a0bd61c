// Package ratelimiter implements a token bucket limiter with an in-memory
// store for single instances and a Redis store shared across instances.
//
// A request consumes one token. Buckets refill RefillRate tokens every
// RefillInterval up to Capacity. A denied request does not consume tokens and
// reports a negative Remaining.
//
//	bucket, err := ratelimiter.NewBucket(store, cfg)
//	r.With(ratelimiter.Middleware(bucket, keyFunc)).Post("/login", h)
package ratelimiter
