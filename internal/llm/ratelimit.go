package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitProvider spaces out calls to a provider with a token bucket so
// bursts of clicks don't hit the provider's own 429s.
type RateLimitProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps a Provider with a client-side limiter allowing
// perMinute calls per minute with the given burst. A non-positive
// perMinute disables limiting and returns p unchanged.
func WithRateLimit(p Provider, perMinute, burst int) Provider {
	if perMinute <= 0 {
		return p
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitProvider{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

func (r *RateLimitProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ProviderError{Provider: r.inner.Name(), Reason: ReasonRateLimited, Err: err}
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimitProvider) Name() string {
	return r.inner.Name()
}

func (r *RateLimitProvider) ModelID() string {
	return r.inner.ModelID()
}
