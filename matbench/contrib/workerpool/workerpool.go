// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a worker pool for the parallel multiplication
// strategies. Work is always handed out as disjoint index ranges and every
// call blocks until all of its ranges are done, so callers can write into
// shared output slices without locking.
//
// Usage:
//
//	pool := workerpool.New(threadCount)
//	defer pool.Close()
//
//	pool.ParallelFor(n, func(start, end int) {
//	    processRows(start, end)
//	})
//
// A panic inside a worker does not kill the process: it is captured and
// re-raised on the goroutine that called ParallelFor, after the join.
package workerpool

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"k8s.io/klog/v2"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem represents a single unit of a parallel operation.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
	fault   *fault
}

// fault keeps the first panic raised by any unit of one operation.
type fault struct {
	once sync.Once
	err  *PanicError
}

func (f *fault) record(r any) {
	f.once.Do(func() {
		f.err = &PanicError{Value: r, Stack: debug.Stack()}
	})
}

// PanicError is raised on the calling goroutine when a worker panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}
	klog.V(2).Infof("workerpool: started %d workers", numWorkers)
	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.run()
	}
}

func (item workItem) run() {
	defer item.barrier.Done()
	defer func() {
		if r := recover(); r != nil {
			item.fault.record(r)
		}
	}()
	item.fn()
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Run executes fn once per range, concurrently, and blocks until all ranges
// are done. The ranges must be disjoint (see CheckPartition); Run does not
// check it.
func (p *Pool) Run(ranges []Range, fn func(start, end int)) {
	if len(ranges) == 0 {
		return
	}

	if p.closed.Load() || len(ranges) == 1 {
		// Sequential fallback: closed pool or nothing to overlap.
		for _, r := range ranges {
			fn(r.Start, r.End)
		}
		return
	}

	var (
		wg sync.WaitGroup
		f  fault
	)
	wg.Add(len(ranges))
	for _, r := range ranges {
		p.workC <- workItem{
			fn: func() {
				fn(r.Start, r.End)
			},
			barrier: &wg,
			fault:   &f,
		}
	}
	wg.Wait()

	if f.err != nil {
		panic(f.err)
	}
}

// ParallelFor executes fn over [0, n) split into one contiguous range per worker.
// Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.Run(Partition(n, p.numWorkers), fn)
}

// ParallelForAtomic executes fn for each index in [0, n) using atomic work
// stealing: each index is its own unit, grabbed by whichever worker is free.
// Blocks until all work completes.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	workers := min(p.numWorkers, n)
	if p.closed.Load() || workers == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var nextIdx atomic.Int64
	// One unit per worker; the indices come from nextIdx, not from the ranges.
	ranges := make([]Range, workers)
	p.Run(ranges, func(_, _ int) {
		for {
			idx := int(nextIdx.Add(1)) - 1
			if idx >= n {
				return
			}
			fn(idx)
		}
	})
}
