// Package fetcher implements the query-to-records pipeline against the NCBI
// E-utilities API: esearch for matching identifiers, efetch for the records.
package fetcher

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter wraps a token bucket limiter used to pace outbound requests to
// the E-utilities endpoints. NCBI allows 3 requests per second without an API
// key and 10 with one. Safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter with the given sustained rate (requests
// per second) and burst size.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// Wait blocks until a request is allowed or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed without waiting, consuming one
// token if so.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// SetRate updates the sustained rate while preserving the burst size, e.g.
// after an API key is configured.
func (r *RateLimiter) SetRate(ratePerSecond float64) {
	r.limiter.SetLimit(rate.Limit(ratePerSecond))
}
