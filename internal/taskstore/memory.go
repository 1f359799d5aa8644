package taskstore

import (
	"context"
	"time"
)

// Memory is an in-memory Store. Each task is an immutable Task value stored
// in a sync.Map under its id; updates replace the whole value.
type Memory struct {
	tasks syncMap
	now   func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// Create implements Store.
func (m *Memory) Create(ctx context.Context, task Task) error {
	if task.Status != StatusPending {
		return ErrInvalidTransition
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = m.now().UTC()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
	if _, loaded := m.tasks.LoadOrStore(task.ID, task); loaded {
		return ErrExists
	}
	return nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id string) (Task, error) {
	task, ok := m.tasks.Load(id)
	if !ok {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// Complete implements Store.
func (m *Memory) Complete(ctx context.Context, id string, r Result) error {
	if !r.Status.Terminal() {
		return ErrInvalidTransition
	}
	for {
		old, ok := m.tasks.Load(id)
		if !ok {
			return ErrNotFound
		}
		if old.Status.Terminal() {
			return ErrAlreadyCompleted
		}

		next := old
		next.Status = r.Status
		next.Location = r.Location
		next.Error = r.Error
		next.UpdatedAt = m.now().UTC()
		if m.tasks.CompareAndSwap(id, old, next) {
			return nil
		}
	}
}

// Sweep implements Store.
func (m *Memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	m.tasks.Range(func(id string, task Task) bool {
		if task.Status.Terminal() && task.UpdatedAt.Before(cutoff) {
			if m.tasks.CompareAndDelete(id, task) {
				removed++
			}
		}
		return true
	})
	return removed, nil
}
