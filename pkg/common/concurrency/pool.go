// Package concurrency provides a small generic worker pool used to fan out
// independent, order-preserving per-item work (hashing a blob, stat-checking
// an index entry, reading a subtree) across goroutines.
package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs a ProcessFunc over a slice of T and collects one R per
// input, in input order. The zero value is ready to use.
type WorkerPool[T any, R any] struct {
	// Limit bounds the number of goroutines running concurrently. Zero means
	// unbounded (one goroutine per item).
	Limit int
}

// NewWorkerPool creates a WorkerPool with no concurrency limit.
func NewWorkerPool[T any, R any]() *WorkerPool[T, R] {
	return &WorkerPool[T, R]{}
}

// ProcessFunc processes a single item and returns its result.
type ProcessFunc[T any, R any] func(ctx context.Context, item T) (R, error)

// Process runs fn over every item in items concurrently and returns their
// results in the same order as items. If any invocation of fn returns an
// error, Process cancels the remaining work via ctx and returns the first
// error observed; results is still valid up to the point of cancellation
// and unfinished slots are the zero value of R.
func (p *WorkerPool[T, R]) Process(ctx context.Context, items []T, fn ProcessFunc[T, R]) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if p.Limit > 0 {
		g.SetLimit(p.Limit)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
