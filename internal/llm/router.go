package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Router sends each request to the primary provider and, when that fails,
// to the fallback. Calls are strictly sequential.
type Router struct {
	slots []Provider
	log   *zap.Logger
}

// NewRouter creates a Router. fallback may be nil to disable failover.
func NewRouter(primary, fallback Provider, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	slots := []Provider{primary}
	if fallback != nil {
		slots = append(slots, fallback)
	}
	return &Router{slots: slots, log: log.With(zap.String("component", "router"))}
}

// Generate tries each provider in order and returns the first success.
// Any provider failure moves on to the next slot; cancellation of ctx
// stops immediately.
func (r *Router) Generate(ctx context.Context, req Request) (*Response, error) {
	var errs []error

	for i, p := range r.slots {
		resp, err := p.Generate(ctx, req)
		if err == nil {
			if i > 0 {
				r.log.Info("served by fallback provider", zap.String("provider", p.Name()))
			}
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.log.Warn("provider failed",
			zap.String("provider", p.Name()),
			zap.Int("slot", i),
			zap.Error(err))
		errs = append(errs, err)
	}

	return nil, pickError(errs)
}

// Name returns the primary provider's name.
func (r *Router) Name() string {
	return r.slots[0].Name()
}

// ModelID returns the primary provider's model.
func (r *Router) ModelID() string {
	return r.slots[0].ModelID()
}

// Providers returns the configured slots in call order.
func (r *Router) Providers() []Provider {
	return r.slots
}

// pickError chooses the error to surface when every slot failed. A real
// call failure says more than a missing credential on another slot.
func pickError(errs []error) error {
	if len(errs) == 0 {
		return fmt.Errorf("no providers configured")
	}
	for i := len(errs) - 1; i >= 0; i-- {
		var pe *ProviderError
		if errors.As(errs[i], &pe) && pe.Reason == ReasonNoCredential {
			continue
		}
		return errs[i]
	}
	return errs[len(errs)-1]
}
