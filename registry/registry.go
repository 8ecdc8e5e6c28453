// Package registry holds the in-memory task store. State lives for the
// process lifetime only: it is created at startup, entries are removed only
// by explicit deletion, and everything is lost on restart.
package registry

import (
	"errors"
	"sync"
	"time"

	"vidforge/types"
)

var ErrTaskNotFound = errors.New("task not found")

// Store is an in-memory map of tasks guarded by a mutex. All reads return
// copies so callers never share memory with the store.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*types.Task
}

func NewStore() *Store {
	return &Store{tasks: make(map[string]*types.Task)}
}

// Create registers a new task in the queued state.
func (s *Store) Create(id, name string) types.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &types.Task{
		ID:        id,
		Name:      name,
		Status:    types.StatusQueued,
		Results:   []types.VariantURL{},
		CreatedAt: time.Now(),
	}
	s.tasks[id] = t
	return *t
}

// SetProcessing marks the task as running.
func (s *Store) SetProcessing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		t.Status = types.StatusProcessing
	}
}

// SetProgress records the latest render progress for the task.
func (s *Store) SetProgress(id string, completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return
	}
	t.Completed = completed
	t.Total = total
	if total > 0 {
		t.Progress = round2(float64(completed) / float64(total) * 100)
	} else {
		t.Progress = 0
	}
}

// SetCompleted stores the final result and moves the task to completed.
func (s *Store) SetCompleted(id string, result types.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return
	}
	t.Status = types.StatusCompleted
	t.Results = append([]types.VariantURL{}, result.Successful...)
	t.FailedCount = len(result.Failed)
	now := time.Now()
	t.CompletedAt = &now
}

// SetFailed moves the task to the terminal failed state with a message.
func (s *Store) SetFailed(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return
	}
	t.Status = types.StatusFailed
	t.Error = message
	now := time.Now()
	t.CompletedAt = &now
}

// Get returns a copy of the task.
func (s *Store) Get(id string) (types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return types.Task{}, ErrTaskNotFound
	}
	out := *t
	out.Results = append([]types.VariantURL{}, t.Results...)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	return out, nil
}

// Delete removes the task from the store.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
