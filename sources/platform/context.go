package platform

import (
	"context"
	"time"
)

var defaultTimeout = GetAsDuration("CONTEXT_TIMEOUT", "5s")

func ContextTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultTimeout)
}

// ContextTimeoutVal with a non-positive timeout only adds cancellation.
func ContextTimeoutVal(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
