package task

import (
	"context"
	"sync"
	"time"

	"github.com/bihua-university/countries/internal/document"
)

// Store persists tasks by id.
type Store interface {
	Insert(ctx context.Context, t Task) error
	// Transition moves a task from one status to another in a single atomic
	// step. It fails with ErrNotFound for unknown ids and with ErrNotRunning
	// when the current status is not from.
	Transition(ctx context.Context, id string, from, to Status, result *document.Value, errText string) error
	Get(ctx context.Context, id string) (Task, error)
}

// MemoryStore keeps tasks in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]Task)}
}

func (s *MemoryStore) Insert(_ context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return nil
}

func (s *MemoryStore) Transition(_ context.Context, id string, from, to Status, result *document.Value, errText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	if t.Status != from {
		return ErrNotRunning
	}
	t.Status = to
	t.Result = result
	t.Error = errText
	t.UpdatedAt = time.Now()
	s.tasks[id] = t
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}
