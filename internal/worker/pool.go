// Package worker runs bounded concurrent work for link probing and batch checks.
package worker

import (
	"context"
	"sync"
)

// Task is a unit of work producing one value
type Task[T any] func(ctx context.Context) T

type job[T any] struct {
	index int
	task  Task[T]
}

// Pool runs tasks on a fixed number of workers and returns their values in
// submission order
type Pool[T any] struct {
	workers    int
	jobQueue   chan job[T]
	results    []T
	submitted  int
	mu         sync.Mutex
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool bound to ctx. Fewer than one worker means one.
func NewPool[T any](ctx context.Context, workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[T]{
		workers:    workers,
		jobQueue:   make(chan job[T], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the workers
func (p *Pool[T]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()

	// the queue is always drained; cancelled tasks see ctx.Done and return early
	for j := range p.jobQueue {
		value := j.task(p.ctx)
		p.mu.Lock()
		p.results[j.index] = value
		p.mu.Unlock()
	}
}

// Submit queues a task. It must not be called after Wait or Shutdown.
func (p *Pool[T]) Submit(task Task[T]) {
	p.mu.Lock()
	index := p.submitted
	p.submitted++
	p.results = append(p.results, *new(T))
	p.mu.Unlock()

	p.jobQueue <- job[T]{index: index, task: task}
}

// Wait closes the queue, waits for the workers and returns one value per
// submitted task in submission order
func (p *Pool[T]) Wait() []T {
	p.closeQueue()
	p.wg.Wait()
	p.cancelFunc()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Shutdown cancels the pool context, lets queued tasks observe it and stops
// the workers
func (p *Pool[T]) Shutdown() {
	p.cancelFunc()
	p.closeQueue()
	p.wg.Wait()
}

func (p *Pool[T]) closeQueue() {
	p.closeOnce.Do(func() {
		close(p.jobQueue)
	})
}

// Map applies fn to every item with at most workers running at once and
// returns the outputs in input order
func Map[In, Out any](ctx context.Context, workers int, items []In, fn func(context.Context, In) Out) []Out {
	if len(items) == 0 {
		return []Out{}
	}

	pool := NewPool[Out](ctx, workers)
	pool.Start()
	for _, item := range items {
		item := item
		pool.Submit(func(ctx context.Context) Out { return fn(ctx, item) })
	}
	return pool.Wait()
}
