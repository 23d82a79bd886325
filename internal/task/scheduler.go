package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bihua-university/countries/internal/document"
	"github.com/bihua-university/countries/internal/syncx"
)

var ErrClosed = errors.New("scheduler closed")

// Observer receives task counters. base.Metrics implements it.
type Observer interface {
	TaskSubmitted()
	TaskFinished(status string)
	CompareDuration(d time.Duration)
}

type nopObserver struct{}

func (nopObserver) TaskSubmitted()                {}
func (nopObserver) TaskFinished(string)           {}
func (nopObserver) CompareDuration(time.Duration) {}

type job struct {
	id   string
	a, b Side
}

// Scheduler 异步执行比较任务
//
// Schedule registers the task and queues the comparison; a fixed set of
// workers started by Run executes queued jobs in order.
type Scheduler struct {
	registry *Registry
	queue    syncx.UnboundedChan[job]
	workers  int
	logger   *slog.Logger
	observer Observer
	compare  func(a, b document.Value, nameA, nameB string) (document.Value, error)

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Scheduler)

func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

func NewScheduler(registry *Registry, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry: registry,
		queue:    syncx.NewUnboundedChan[job](32),
		workers:  4,
		logger:   slog.Default(),
		observer: nopObserver{},
		compare:  document.Compare,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule submits a comparison of a against b and returns without waiting
// for it. The returned task is Running.
func (s *Scheduler) Schedule(ctx context.Context, a, b Side) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Task{}, ErrClosed
	}

	t, err := s.registry.Submit(ctx, a.Name, b.Name)
	if err != nil {
		return Task{}, err
	}
	s.observer.TaskSubmitted()
	s.queue.In() <- job{id: t.ID, a: a, b: b}
	return t, nil
}

// Run starts the workers. Store writes use a context detached from ctx's
// cancellation so a started comparison always reaches a terminal status.
func (s *Scheduler) Run(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for j := range s.queue.Out() {
				s.process(ctx, j)
			}
		}()
	}
}

// Close stops accepting jobs and waits for the workers to drain the queue.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.queue.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) process(ctx context.Context, j job) {
	start := time.Now()
	result, err := s.run(j)
	s.observer.CompareDuration(time.Since(start))

	if err != nil {
		s.logger.WarnContext(ctx, "comparison failed", "task_id", j.id, "error", err)
		if ferr := s.registry.Fail(ctx, j.id, err); ferr != nil {
			s.logger.ErrorContext(ctx, "record task failure", "task_id", j.id, "error", ferr)
			return
		}
		s.observer.TaskFinished(string(Failed))
		return
	}
	if cerr := s.registry.Complete(ctx, j.id, result); cerr != nil {
		s.logger.ErrorContext(ctx, "record task result", "task_id", j.id, "error", cerr)
		return
	}
	s.observer.TaskFinished(string(Completed))
}

func (s *Scheduler) run(j job) (result document.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("comparison panicked: %v", r)
		}
	}()
	return s.compare(j.a.Data, j.b.Data, j.a.Name, j.b.Name)
}
