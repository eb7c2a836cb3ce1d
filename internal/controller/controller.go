// Package controller implements the task list state machine: the in-memory
// list, the editable draft, the create/edit/delete modals and the busy flag.
//
// Every mutation is confirmed through a modal, sent to the repository, and
// followed by a full list refresh. The repository is authoritative; the list is
// never patched locally.
//
// The busy flag is advisory. Overlapping confirm calls are not serialized and
// a request in flight cannot be cancelled by a later action.
package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"tareas/internal/service"
)

// Op names a repository-backed controller operation.
type Op string

const (
	OpRefresh Op = "refresh"
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
)

// Modal is a surface with show/hide visibility.
type Modal interface {
	Show()
	Hide()
}

// Modals are the three confirmation surfaces.
type Modals struct {
	Create Modal
	Edit   Modal
	Delete Modal
}

// ErrorHandler receives every repository failure the controller observes.
type ErrorHandler func(op Op, err error)

// Controller owns the task list screen state.
type Controller struct {
	repo    service.Repository
	modals  Modals
	onError ErrorHandler
	logger  *zap.Logger

	mu    sync.Mutex
	tasks []service.Task
	draft service.Task
	busy  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithErrorHandler sets the failure handler. The default logs at error level.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Controller) { c.onError = h }
}

// WithLogger sets the logger used for transitions and the default error handler.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller over repo. All three modals must be non-nil.
func New(repo service.Repository, modals Modals, opts ...Option) *Controller {
	c := &Controller{
		repo:   repo,
		modals: modals,
		logger: zap.NewNop(),
		tasks:  []service.Task{},
		draft:  service.NewTask(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.onError == nil {
		logger := c.logger
		c.onError = func(op Op, err error) {
			logger.Error("tareas operation failed", zap.String("op", string(op)), zap.Error(err))
		}
	}
	return c
}

// Tasks returns a copy of the current list.
func (c *Controller) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]service.Task, len(c.tasks))
	for i, t := range c.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Draft returns a copy of the task being created, edited or deleted.
func (c *Controller) Draft() service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// EditDraft applies user input to the draft.
func (c *Controller) EditDraft(fn func(*service.Task)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.draft)
}

// Busy reports whether a repository call started by this controller is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) setBusy(b bool) {
	c.mu.Lock()
	c.busy = b
	c.mu.Unlock()
}

// Mount performs the initial fetch of the screen.
func (c *Controller) Mount(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh replaces the list with the repository's. On failure the list is left unchanged.
func (c *Controller) Refresh(ctx context.Context) error {
	c.setBusy(true)
	defer c.setBusy(false)
	return c.refresh(ctx)
}

// refresh fetches the list without touching busy, so a confirm keeps
// busy set until its modal is closed.
func (c *Controller) refresh(ctx context.Context) error {
	tasks, err := c.repo.List(ctx)
	if err != nil {
		c.onError(OpRefresh, err)
		return err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}

	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()
	c.logger.Debug("task list refreshed", zap.Int("count", len(tasks)))
	return nil
}

// OpenCreate starts a fresh draft and shows the create modal.
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	c.draft = service.NewTask()
	c.mu.Unlock()
	c.modals.Create.Show()
}

// OpenEdit copies t into the draft and shows the edit modal.
func (c *Controller) OpenEdit(t service.Task) {
	c.selectDraft(t)
	c.modals.Edit.Show()
}

// OpenDelete copies t into the draft and shows the delete modal.
func (c *Controller) OpenDelete(t service.Task) {
	c.selectDraft(t)
	c.modals.Delete.Show()
}

func (c *Controller) selectDraft(t service.Task) {
	c.mu.Lock()
	c.draft = t.Clone()
	c.mu.Unlock()
}

// ConfirmCreate sends the draft to the repository and refreshes on success.
// The create modal is closed right away, whatever the outcome.
func (c *Controller) ConfirmCreate(ctx context.Context) error {
	c.setBusy(true)
	defer c.setBusy(false)
	draft := c.Draft()
	c.modals.Create.Hide()

	if _, err := c.repo.Create(ctx, draft); err != nil {
		c.onError(OpCreate, err)
		return err
	}
	_ = c.refresh(ctx)
	return nil
}

// ConfirmUpdate sends the draft to the repository. The edit modal is
// closed only when the update succeeds.
func (c *Controller) ConfirmUpdate(ctx context.Context) error {
	c.setBusy(true)
	defer c.setBusy(false)

	if _, err := c.repo.Update(ctx, c.Draft()); err != nil {
		c.onError(OpUpdate, err)
		return err
	}
	_ = c.refresh(ctx)
	c.modals.Edit.Hide()
	return nil
}

// ConfirmDelete deletes the draft's task. The delete modal is closed only
// when the delete succeeds.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.setBusy(true)
	defer c.setBusy(false)

	if err := c.repo.Delete(ctx, c.Draft().ID); err != nil {
		c.onError(OpDelete, err)
		return err
	}
	_ = c.refresh(ctx)
	c.modals.Delete.Hide()
	return nil
}

// Cancel closes all three modals.
func (c *Controller) Cancel() {
	c.modals.Create.Hide()
	c.modals.Delete.Hide()
	c.modals.Edit.Hide()
}
