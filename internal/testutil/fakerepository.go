// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"tareas/internal/service"
)

// ErrNotFound is returned when a task id is unknown.
var ErrNotFound = errors.New("not found")

// FakeRepository is an in-memory implementation of service.Repository for testing.
// Failures are reported as *service.TransportError, like the real backends.
type FakeRepository struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  []string

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// OnCall, when set, runs at the start of every operation with its name.
	// Tests use it to observe controller state while a call is outstanding.
	OnCall func(op string)
}

// NewFakeRepository creates an empty FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{nextID: 1}
}

// AddTask appends a persisted task as-is.
func (f *FakeRepository) AddTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task.Clone())
}

// Stored returns a copy of the stored tasks.
func (f *FakeRepository) Stored() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Calls returns the operation names in call order.
func (f *FakeRepository) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeRepository) begin(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	hook := f.OnCall
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
}

func fail(op string, err error) error {
	var te *service.TransportError
	if errors.As(err, &te) {
		return err
	}
	return &service.TransportError{Op: op, Err: err}
}

// List implements service.Repository.
func (f *FakeRepository) List(ctx context.Context) ([]service.Task, error) {
	f.begin("list")
	if f.ListErr != nil {
		return nil, fail("list", f.ListErr)
	}
	return f.Stored(), nil
}

// Create implements service.Repository.
func (f *FakeRepository) Create(ctx context.Context, task service.Task) (service.Task, error) {
	f.begin("create")
	if f.CreateErr != nil {
		return service.Task{}, fail("create", f.CreateErr)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	created := task.Clone()
	created.ID = strconv.Itoa(f.nextID)
	f.nextID++
	f.tasks = append(f.tasks, created)
	return created.Clone(), nil
}

// Update implements service.Repository.
func (f *FakeRepository) Update(ctx context.Context, task service.Task) (service.Task, error) {
	f.begin("update")
	if f.UpdateErr != nil {
		return service.Task{}, fail("update", f.UpdateErr)
	}
	if task.ID == "" {
		return service.Task{}, fail("update", service.ErrMissingID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = task.Clone()
			return task.Clone(), nil
		}
	}
	return service.Task{}, fail("update", ErrNotFound)
}

// Delete implements service.Repository.
func (f *FakeRepository) Delete(ctx context.Context, id string) error {
	f.begin("delete")
	if f.DeleteErr != nil {
		return fail("delete", f.DeleteErr)
	}
	if id == "" {
		return fail("delete", service.ErrMissingID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return fail("delete", ErrNotFound)
}
