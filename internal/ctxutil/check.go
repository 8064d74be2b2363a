// Package ctxutil provides context helpers shared by the blocking paths:
// completion calls, store access and conversation turns.
package ctxutil

import (
	"context"
	"time"
)

// Canceled returns ctx.Err(). Call it at the top of operations that should
// not start once the caller has given up.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// WithOptionalTimeout bounds ctx by d when d is positive. A zero or negative
// d leaves the caller's deadline, if any, in charge.
func WithOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
