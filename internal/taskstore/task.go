package taskstore

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending  Status = "pending"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusFailed
}

// Task is a generation task as seen by pollers.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Result is the terminal outcome written by Complete.
type Result struct {
	Status   Status
	Location string
	Error    string
}

// Finished returns a successful Result.
func Finished(location string) Result {
	return Result{Status: StatusFinished, Location: location}
}

// Failed returns a failed Result.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Error: err.Error()}
}

var (
	// ErrNotFound is returned for unknown task ids.
	ErrNotFound = errors.New("task not found")
	// ErrExists is returned by Create for a duplicate id.
	ErrExists = errors.New("task already exists")
	// ErrAlreadyCompleted is returned by Complete for a task that is no
	// longer pending.
	ErrAlreadyCompleted = errors.New("task already completed")
	// ErrInvalidTransition is returned for a Create that is not pending or a
	// Complete that is not terminal.
	ErrInvalidTransition = errors.New("invalid task state transition")
)

// Store persists tasks.
type Store interface {
	// Create inserts a Pending task.
	Create(ctx context.Context, task Task) error
	// Get returns the current state of a task, or ErrNotFound.
	Get(ctx context.Context, id string) (Task, error)
	// Complete moves a Pending task to the terminal state in r.
	Complete(ctx context.Context, id string, r Result) error
	// Sweep removes terminal tasks last updated before cutoff and reports
	// how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}
