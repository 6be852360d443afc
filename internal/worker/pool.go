// Package worker bounds how many scrape jobs run at once. HTTP handlers
// block in Do while the browser works; the pool is what keeps a burst of
// requests from opening a burst of browser pages.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// Job is one scrape run executed under a pool slot.
type Job func(ctx context.Context) (*types.RunSummary, error)

// Pool is a bounded executor for scrape jobs.
type Pool struct {
	slots  chan struct{}
	wg     sync.WaitGroup
	logger *slog.Logger
}

// New creates a pool with the given number of slots.
func New(size int, logger *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		slots:  make(chan struct{}, size),
		logger: logger.With("component", "worker_pool"),
	}
}

// Do runs the job once a slot is free, blocking the caller for the whole
// run. Waiting for a slot respects the caller's context; a caller that
// gives up never starts its job.
func (p *Pool) Do(ctx context.Context, name string, job Job) (*types.RunSummary, error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	p.wg.Add(1)
	defer func() {
		<-p.slots
		p.wg.Done()
	}()

	start := time.Now()
	p.logger.Info("job started", "job", name)

	summary, err := job(ctx)

	if err != nil {
		p.logger.Error("job failed", "job", name, "duration", time.Since(start), "error", err)
	} else {
		p.logger.Info("job finished", "job", name, "duration", time.Since(start))
	}
	return summary, err
}

// Wait blocks until every running job has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
