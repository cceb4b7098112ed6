package core

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedGenerator spaces out calls to the wrapped generator so a burst
// of drafts stays under the API's per-minute quota.
type RateLimitedGenerator struct {
	next    ContentGenerator
	limiter *rate.Limiter
}

func NewRateLimitedGenerator(next ContentGenerator, perMinute int) *RateLimitedGenerator {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

func (g *RateLimitedGenerator) GeneratePostDraft(ctx context.Context, seedTitle string) (*PostDraft, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return g.next.GeneratePostDraft(ctx, seedTitle)
}

func (g *RateLimitedGenerator) GenerateMenuDraft(ctx context.Context, style, audience string) (*MenuDraft, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return g.next.GenerateMenuDraft(ctx, style, audience)
}

func (g *RateLimitedGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return g.next.GenerateImage(ctx, prompt)
}
