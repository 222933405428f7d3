// Package fanout runs a function across a slice of items on a bounded worker
// pool, preserving input order in results. The inventory service uses it for
// bulk box adds, where each item succeeds or fails on its own.
package fanout

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// Result holds the outcome of processing a single item.
// Either Value is populated (on success) or Err is non-nil (on failure).
type Result[R any] struct {
	Value R
	Err   error
}

// PanicError is the Err recorded for an item whose fn panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("fanout: item panicked: %v", e.Value)
}

// Run executes fn for each item using at most maxWorkers goroutines and
// returns results in input order.
//
// Items are handed to workers in input order. Once ctx is canceled, items not
// yet started record ctx.Err() without calling fn; items already running
// finish (fn is responsible for honoring ctx). A panic in fn is recovered and
// recorded as a *PanicError for that item only.
//
// Run blocks until every item has a result. Empty input yields an empty
// non-nil slice. maxWorkers below 1 is treated as 1.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}
	workers := min(max(maxWorkers, 1), len(items))

	results := make([]Result[R], len(items))
	next := make(chan int)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				if err := ctx.Err(); err != nil {
					results[i] = Result[R]{Err: err}
					continue
				}
				results[i] = runOne(ctx, items[i], fn)
			}
		}()
	}

	for i := range items {
		next <- i
	}
	close(next)

	wg.Wait()
	return results
}

func runOne[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (res Result[R]) {
	defer func() {
		if v := recover(); v != nil {
			res = Result[R]{Err: &PanicError{Value: v, Stack: debug.Stack()}}
		}
	}()

	val, err := fn(ctx, item)
	return Result[R]{Value: val, Err: err}
}
