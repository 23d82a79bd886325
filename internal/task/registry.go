package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bihua-university/countries/internal/document"
)

// Registry drives tasks through Running -> Completed | Failed on top of a
// Store and tells watchers about terminal transitions.
type Registry struct {
	store  Store
	logger *slog.Logger

	mu       sync.Mutex
	watchers map[string][]chan Task
}

func NewRegistry(store Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:    store,
		logger:   logger,
		watchers: make(map[string][]chan Task),
	}
}

// Submit stores a new Running task for the pair and returns it.
func (r *Registry) Submit(ctx context.Context, countryA, countryB string) (Task, error) {
	now := time.Now()
	t := Task{
		ID:        uuid.New().String(),
		Status:    Running,
		CountryA:  countryA,
		CountryB:  countryB,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Insert(ctx, t); err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	r.logger.DebugContext(ctx, "task submitted", "task_id", t.ID, "country_a", countryA, "country_b", countryB)
	return t, nil
}

// Complete moves a Running task to Completed with its result.
func (r *Registry) Complete(ctx context.Context, id string, result document.Value) error {
	return r.finish(ctx, id, Completed, &result, "")
}

// Fail moves a Running task to Failed and records the cause.
func (r *Registry) Fail(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return r.finish(ctx, id, Failed, nil, msg)
}

func (r *Registry) finish(ctx context.Context, id string, to Status, result *document.Value, errText string) error {
	if err := r.store.Transition(ctx, id, Running, to, result, errText); err != nil {
		return fmt.Errorf("task %s -> %s: %w", id, to, err)
	}
	r.logger.InfoContext(ctx, "task finished", "task_id", id, "status", to)

	t, err := r.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("reload task %s: %w", id, err)
	}
	r.notify(t)
	return nil
}

// Get returns the current snapshot. Unknown ids give ErrNotFound.
func (r *Registry) Get(ctx context.Context, id string) (Task, error) {
	return r.store.Get(ctx, id)
}

// Watch returns a channel that receives the task once it is terminal. The
// channel is closed after that single value or when cancel is called.
// Watch before Get to not miss a transition in between.
func (r *Registry) Watch(id string) (<-chan Task, func()) {
	ch := make(chan Task, 1)
	r.mu.Lock()
	r.watchers[id] = append(r.watchers[id], ch)
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		list := r.watchers[id]
		for i, c := range list {
			if c == ch {
				r.watchers[id] = append(list[:i], list[i+1:]...)
				close(ch)
				break
			}
		}
		if len(r.watchers[id]) == 0 {
			delete(r.watchers, id)
		}
	}
	return ch, cancel
}

func (r *Registry) notify(t Task) {
	r.mu.Lock()
	list := r.watchers[t.ID]
	delete(r.watchers, t.ID)
	r.mu.Unlock()

	for _, ch := range list {
		ch <- t
		close(ch)
	}
}
