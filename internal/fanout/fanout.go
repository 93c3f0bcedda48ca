// Package fanout runs independent fetches concurrently and joins them in
// their original order.
package fanout

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task is one independent fetch.
type Task[T any] func(ctx context.Context) (T, error)

// Collect runs every task, at most limit at a time (limit <= 0 means no
// limit), and returns results indexed like tasks. Tasks are not cancelled
// when a sibling fails; all failures are joined into the returned error.
func Collect[T any](ctx context.Context, limit int, tasks ...Task[T]) ([]T, error) {
	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			v, err := task(ctx)
			if err != nil {
				errs[i] = fmt.Errorf("task %d: %w", i, err)
				return nil
			}
			results[i] = v
			return nil
		})
	}
	g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// All runs heterogeneous tasks that write their own results, with the same
// join-all semantics as Collect.
func All(ctx context.Context, limit int, tasks ...func(ctx context.Context) error) error {
	wrapped := make([]Task[struct{}], len(tasks))
	for i, fn := range tasks {
		wrapped[i] = func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		}
	}
	_, err := Collect(ctx, limit, wrapped...)
	return err
}
