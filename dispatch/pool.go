package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrDispatch is returned when a task could not be scheduled on a worker
	// or its worker panicked.
	ErrDispatch = errors.New("failed to spawn task")
	// ErrClosed is wrapped by ErrDispatch after Close.
	ErrClosed = errors.New("dispatch: pool closed")
)

// Pool bounds the number of operations running at once. Tasks never share
// state through the pool; each one occupies a single worker slot until it
// returns.
type Pool struct {
	sem     *semaphore.Weighted
	workers int64
	logger  *slog.Logger
	closed  atomic.Bool

	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	discarded atomic.Uint64
	inFlight  atomic.Int64
	busyNanos atomic.Uint64
}

// New creates a pool with the given worker count. Values below 1 use GOMAXPROCS.
func New(workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: int64(workers),
		logger:  logger,
	}
}

type result[T any] struct {
	val T
	err error
}

// Submit runs fn on a worker and waits for it. If ctx ends while waiting for
// a free worker the task is never started and the error wraps ErrDispatch. If
// ctx ends while fn runs, fn is left to finish, its result is dropped and
// ctx.Err() is returned.
func Submit[T any](ctx context.Context, p *Pool, name string, fn func() (T, error)) (T, error) {
	var zero T
	p.submitted.Add(1)
	if p.closed.Load() {
		p.failed.Add(1)
		return zero, fmt.Errorf("%w: %s: %w", ErrDispatch, name, ErrClosed)
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		p.failed.Add(1)
		return zero, fmt.Errorf("%w: %s: %w", ErrDispatch, name, err)
	}

	done := make(chan result[T], 1)
	p.inFlight.Add(1)
	go func() {
		start := time.Now()
		defer p.sem.Release(1)
		defer p.inFlight.Add(-1)
		res := run(name, fn)
		p.busyNanos.Add(uint64(time.Since(start).Nanoseconds()))
		if res.err != nil {
			p.failed.Add(1)
		} else {
			p.completed.Add(1)
		}
		done <- res
	}()

	select {
	case res := <-done:
		return res.val, res.err
	case <-ctx.Done():
		p.discarded.Add(1)
		if p.logger != nil {
			p.logger.Debug("dispatch.discard", "task", name, "error", ctx.Err())
		}
		return zero, fmt.Errorf("%s: %w", name, ctx.Err())
	}
}

func run[T any](name string, fn func() (T, error)) (res result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = result[T]{err: fmt.Errorf("%w: %s: panic: %v", ErrDispatch, name, r)}
		}
	}()
	res.val, res.err = fn()
	return res
}

// Close rejects new tasks and waits until running ones have returned or ctx ends.
func (p *Pool) Close(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := p.sem.Acquire(ctx, p.workers); err != nil {
		return err
	}
	p.sem.Release(p.workers)
	return nil
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return int(p.workers) }

// Stats returns a point-in-time copy of the pool counters.
func (p *Pool) Stats() Stats {
	completed := p.completed.Load()
	failed := p.failed.Load()
	var avg time.Duration
	if n := completed + failed; n > 0 {
		avg = time.Duration(p.busyNanos.Load() / n)
	}
	return Stats{
		Workers:   int(p.workers),
		Submitted: p.submitted.Load(),
		Completed: completed,
		Failed:    failed,
		Discarded: p.discarded.Load(),
		InFlight:  p.inFlight.Load(),
		AvgTask:   avg,
	}
}
