package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles the stress workload's operation rate using a token
// bucket: tokens accrue at a constant rate, each operation consumes one, and
// burst capacity absorbs short spikes above the sustained rate.
//
// All methods are safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// New creates a RateLimiter allowing requestsPerSecond sustained operations
// with the given burst capacity. A zero rate means no limiting.
func New(requestsPerSecond, burst uint) *RateLimiter {
	if requestsPerSecond == 0 {
		// Unlimited: rate.Inf has edge cases, a huge finite rate does not.
		requestsPerSecond = 1_000_000_000
		burst = requestsPerSecond
	}
	if burst == 0 {
		burst = requestsPerSecond
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Allow reports whether an operation may proceed right now, consuming a
// token if so. This is the non-blocking path.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a token is available or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
