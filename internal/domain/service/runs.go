package service

import (
	"context"
	"time"
)

// RunDispatcher triggers a signal generation run for a target data date
// (zero means latest). Implementations either execute inline or hand
// the request to a worker queue.
type RunDispatcher interface {
	Dispatch(ctx context.Context, target time.Time) error
}
