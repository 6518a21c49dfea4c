// Package fanout runs independent tasks concurrently and waits for all of them to
// settle. One task failing never cancels or hides the others.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the settled outcome of one task
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the task succeeded
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Settle runs task for every index in [0, n) and returns the outcome of each in index
// order. limit bounds how many tasks run at once; zero or less means unlimited.
func Settle[T any](ctx context.Context, n, limit int, task func(ctx context.Context, i int) (T, error)) []Result[T] {
	results := make([]Result[T], n)
	if n == 0 {
		return results
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			v, err := task(ctx, i)
			results[i] = Result[T]{Value: v, Err: err}
			// errors stay in results so the group never short-circuits
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Map is Settle over a slice of inputs
func Map[In, Out any](ctx context.Context, inputs []In, limit int, task func(ctx context.Context, in In) (Out, error)) []Result[Out] {
	return Settle(ctx, len(inputs), limit, func(ctx context.Context, i int) (Out, error) {
		return task(ctx, inputs[i])
	})
}

// Successes returns the values of successful results, paired with their index
func Successes[T any](results []Result[T]) (values []T, indexes []int) {
	for i, r := range results {
		if r.OK() {
			values = append(values, r.Value)
			indexes = append(indexes, i)
		}
	}
	return values, indexes
}
