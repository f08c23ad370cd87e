package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/nfaconnect/matchday/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

// Runner executes detached follow-up work on a bounded worker pool.
// Tasks run on a fresh context so callers are never blocked and caller
// cancellation does not abort the work; failures are logged here and
// discarded, which is the single error sink for fire-and-forget tasks.
type Runner struct {
	pool    *ants.Pool
	wg      sync.WaitGroup
	timeout time.Duration
	logger  *logging.Logger
}

func NewRunner(workers int, timeout time.Duration, logger *logging.Logger) (*Runner, error) {
	if workers < 1 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	return &Runner{
		pool:    pool,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Go schedules fn on the pool. When the pool cannot accept more work
// the task is dropped and logged.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	err := r.pool.Submit(func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		defer func() {
			if rec := recover(); rec != nil {
				r.logger.ErrorContext(ctx, "detached task panicked", "task", name, "panic", rec)
			}
		}()

		if err := fn(ctx); err != nil {
			r.logger.ErrorContext(ctx, "detached task failed", "task", name, "error", err)
		}
	})
	if err != nil {
		r.wg.Done()
		r.logger.Error("detached task rejected", "task", name, "error", err)
	}
}

// Close waits for in-flight tasks and releases the pool.
func (r *Runner) Close() {
	r.wg.Wait()
	r.pool.Release()
}
