// Package service defines the backend-agnostic types and interface for task operations.
package service

import (
	"context"
	"errors"
	"fmt"
)

// Repository defines the interface for task backend operations.
// Every operation issues exactly one backend request. Nothing is retried
// and no timeout is imposed here; timeouts belong to the transport.
// All failures are *TransportError.
type Repository interface {
	// List returns all tasks in backend order (no client-side sorting).
	List(ctx context.Context) ([]Task, error)

	// Create stores a task that has no identity yet and returns the created task.
	Create(ctx context.Context, task Task) (Task, error)

	// Update replaces the task selected by task.ID and returns the stored task.
	Update(ctx context.Context, task Task) (Task, error)

	// Delete removes the task with the given id.
	Delete(ctx context.Context, id string) error
}

// ErrMissingID is wrapped by a TransportError when update or delete is
// asked for a task without identifier.
var ErrMissingID = errors.New("task has no id")

// TransportError is the single failure kind of a Repository: network
// failure, non-2xx response and malformed payload are not distinguished.
type TransportError struct {
	Op         string // list, create, update, delete
	Method     string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Op + " tareas"
	if e.Method != "" {
		msg += fmt.Sprintf(": %s %s", e.Method, e.URL)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
