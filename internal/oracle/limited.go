package oracle

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles calls to an underlying Oracle.
type Limited struct {
	next    Oracle
	limiter *rate.Limiter
}

// NewLimited wraps next with a limiter allowing rps calls per second with
// the given burst. rps <= 0 returns next unchanged.
func NewLimited(next Oracle, rps float64, burst int) Oracle {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Query waits for a token, then delegates.
func (l *Limited) Query(ctx context.Context, prompt string) (string, error) {
	next, err := l.Admit(ctx, prompt)
	if err != nil {
		return "", err
	}
	return next.Query(ctx, prompt)
}

// Admit waits for a token and returns the wrapped oracle.
func (l *Limited) Admit(ctx context.Context, prompt string) (Oracle, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return Admit(ctx, l.next, prompt)
}

// Ping delegates without consuming a token.
func (l *Limited) Ping(ctx context.Context) error {
	return Ping(ctx, l.next)
}
