// Package ratelimit paces suite query execution.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

type Limiter struct {
	limiter *rate.Limiter
}

// New builds a limiter allowing queriesPerSecond with a burst of one. A
// zero or negative limit disables pacing.
func New(queriesPerSecond float64) *Limiter {
	if queriesPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(queriesPerSecond), 1)}
}

// Wait blocks until the next query may run or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
