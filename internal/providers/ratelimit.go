package providers

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by every call a provider makes.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter from config.
// A zero RequestsPerMinute disables limiting; a zero BurstSize allows one
// minute's worth of requests at once.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}

	burst := config.BurstSize
	if burst <= 0 {
		burst = config.RequestsPerMinute
	}

	perSecond := rate.Limit(float64(config.RequestsPerMinute) / 60.0)
	return &RateLimiter{limiter: rate.NewLimiter(perSecond, burst)}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
