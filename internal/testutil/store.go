// Package testutil holds in-memory stand-ins for the record store and the
// clock, so service and handler tests run without PostgreSQL.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"todo_api/internal/domain"

	"github.com/google/uuid"
)

// MemoryStore mirrors the semantics of repository.TodoRepository
type MemoryStore struct {
	mu    sync.Mutex
	todos map[uuid.UUID]domain.Todo

	// Err, when set, is returned by every operation
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{todos: make(map[uuid.UUID]domain.Todo)}
}

func (s *MemoryStore) List(_ context.Context, f domain.TodoFilter) ([]*domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	q := strings.ToLower(f.Query)
	out := make([]*domain.Todo, 0)
	for _, t := range s.todos {
		if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
			continue
		}
		if f.Completed != nil && t.Completed != *f.Completed {
			continue
		}
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	t, ok := s.todos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(t), nil
}

func (s *MemoryStore) Create(_ context.Context, t *domain.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, exists := s.todos[t.ID]; exists {
		return &domain.StorageError{Op: "create", Err: errDuplicateID}
	}
	s.todos[t.ID] = *clone(*t)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, p domain.TodoPatch) (*domain.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	t, ok := s.todos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Apply(&t)
	s.todos[id] = t
	return clone(t), nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.todos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.todos, id)
	return nil
}

// Len reports how many todos are stored
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}

func clone(t domain.Todo) *domain.Todo {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return &t
}

type storeError string

func (e storeError) Error() string { return string(e) }

const errDuplicateID = storeError("duplicate id")
