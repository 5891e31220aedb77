package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const DefaultTimeout = 30 * time.Second

// Runner executes fire-and-forget side effects on their own goroutines.
// Each task gets a fresh context, independent of the request that
// scheduled it, and its failure is only logged.
type Runner struct {
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(log *slog.Logger, timeout time.Duration) *Runner {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{log: log.With("component", "tasks"), timeout: timeout}
}

func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("task panicked", "task", name, "panic", fmt.Sprint(p))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			r.log.Error("task failed", "task", name, "duration", time.Since(start), "error", err)
			return
		}
		r.log.Debug("task done", "task", name, "duration", time.Since(start))
	}()
}

// Wait blocks until every scheduled task has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}
