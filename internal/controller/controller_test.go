package controller_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tareas/internal/controller"
	"tareas/internal/service"
	"tareas/internal/testutil"
	"tareas/internal/ui"
)

// harness bundles a controller with its fake repository, modals and the
// failures reported to the error handler.
type harness struct {
	ctrl   *controller.Controller
	repo   *testutil.FakeRepository
	create *ui.Modal
	edit   *ui.Modal
	delete *ui.Modal
	errs   []controller.Op
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		repo:   testutil.NewFakeRepository(),
		create: ui.NewModal("create", nil),
		edit:   ui.NewModal("edit", nil),
		delete: ui.NewModal("delete", nil),
	}
	h.ctrl = controller.New(h.repo,
		controller.Modals{Create: h.create, Edit: h.edit, Delete: h.delete},
		controller.WithErrorHandler(func(op controller.Op, err error) {
			h.errs = append(h.errs, op)
		}),
	)
	return h
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

var errBoom = errors.New("boom")

func TestNew_StartsEmpty(t *testing.T) {
	h := newHarness(t)

	if tasks := h.ctrl.Tasks(); tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty list, got %#v", tasks)
	}
	if h.ctrl.Busy() {
		t.Error("expected not busy")
	}
	if h.ctrl.Draft().Persisted() {
		t.Error("expected empty draft")
	}
}

func TestMount_FetchesOnce(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A"})

	if err := h.ctrl.Mount(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := h.repo.Calls()
	if len(calls) != 1 || calls[0] != "list" {
		t.Errorf("expected a single list call, got %v", calls)
	}
	if len(h.ctrl.Tasks()) != 1 {
		t.Errorf("expected 1 task, got %d", len(h.ctrl.Tasks()))
	}
}

func TestRefresh_DueDatesAreTimes(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A", FechaLimite: date(2024, time.January, 1)})
	h.repo.AddTask(service.Task{ID: "2", Nombre: "B"})

	if err := h.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := h.ctrl.Tasks()
	if tasks[0].FechaLimite == nil || !tasks[0].FechaLimite.Equal(*date(2024, time.January, 1)) {
		t.Errorf("expected 2024-01-01, got %v", tasks[0].FechaLimite)
	}
	if tasks[1].FechaLimite != nil {
		t.Errorf("expected no due date, got %v", tasks[1].FechaLimite)
	}
}

func TestRefresh_FailureKeepsList(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A"})
	if err := h.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.repo.AddTask(service.Task{ID: "2", Nombre: "B"})
	h.repo.ListErr = errBoom
	err := h.ctrl.Refresh(context.Background())

	var te *service.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if len(h.ctrl.Tasks()) != 1 {
		t.Errorf("expected list unchanged, got %d tasks", len(h.ctrl.Tasks()))
	}
	if h.ctrl.Busy() {
		t.Error("expected busy cleared after failure")
	}
	if len(h.errs) != 1 || h.errs[0] != controller.OpRefresh {
		t.Errorf("expected refresh failure reported, got %v", h.errs)
	}
}

func TestRefresh_BusyWhileListing(t *testing.T) {
	h := newHarness(t)
	var busyDuring bool
	h.repo.OnCall = func(op string) { busyDuring = h.ctrl.Busy() }

	if err := h.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !busyDuring {
		t.Error("expected busy while list was outstanding")
	}
	if h.ctrl.Busy() {
		t.Error("expected busy cleared after list")
	}
}

func TestOpenCreate_FreshDraft(t *testing.T) {
	h := newHarness(t)
	h.ctrl.OpenEdit(service.Task{ID: "1", Nombre: "A", FechaLimite: date(2024, 1, 1)})
	h.ctrl.Cancel()

	h.ctrl.OpenCreate()

	draft := h.ctrl.Draft()
	if draft.ID != "" || draft.Nombre != "" || draft.FechaLimite != nil {
		t.Errorf("expected empty draft, got %+v", draft)
	}
	if !h.create.Visible() {
		t.Error("expected create modal open")
	}
	if h.edit.Visible() || h.delete.Visible() {
		t.Error("expected other modals closed")
	}
}

func TestOpenEdit_DraftIsolatedFromList(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A", FechaLimite: date(2024, 1, 1)})
	if err := h.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	selected := h.ctrl.Tasks()[0]

	h.ctrl.OpenEdit(selected)
	if !h.edit.Visible() {
		t.Fatal("expected edit modal open")
	}

	draft := h.ctrl.Draft()
	if draft.FechaLimite == nil || !draft.FechaLimite.Equal(*selected.FechaLimite) {
		t.Errorf("expected draft due date %v, got %v", selected.FechaLimite, draft.FechaLimite)
	}

	h.ctrl.EditDraft(func(d *service.Task) {
		d.Nombre = "changed"
		*d.FechaLimite = d.FechaLimite.AddDate(1, 0, 0)
	})

	listed := h.ctrl.Tasks()[0]
	if listed.Nombre != "A" {
		t.Errorf("expected list nombre unchanged, got %q", listed.Nombre)
	}
	if !listed.FechaLimite.Equal(*date(2024, 1, 1)) {
		t.Errorf("expected list due date unchanged, got %v", listed.FechaLimite)
	}
	if !selected.FechaLimite.Equal(*date(2024, 1, 1)) {
		t.Errorf("expected selected task unchanged, got %v", selected.FechaLimite)
	}
}

func TestOpenDelete_CopiesSelection(t *testing.T) {
	h := newHarness(t)
	task := service.Task{ID: "9", Nombre: "Z"}

	h.ctrl.OpenDelete(task)

	if !h.delete.Visible() {
		t.Error("expected delete modal open")
	}
	if h.ctrl.Draft() != (service.Task{ID: "9", Nombre: "Z"}) {
		t.Errorf("unexpected draft %+v", h.ctrl.Draft())
	}
}

func TestConfirmCreate_Success(t *testing.T) {
	h := newHarness(t)
	h.ctrl.OpenCreate()
	h.ctrl.EditDraft(func(d *service.Task) {
		d.Nombre = "Nueva"
		d.FechaLimite = date(2024, 6, 1)
	})

	if err := h.ctrl.ConfirmCreate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.create.Visible() {
		t.Error("expected create modal closed")
	}
	calls := h.repo.Calls()
	if len(calls) != 2 || calls[0] != "create" || calls[1] != "list" {
		t.Errorf("expected create then list, got %v", calls)
	}
	tasks := h.ctrl.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "1" || tasks[0].Nombre != "Nueva" {
		t.Errorf("unexpected list after create: %+v", tasks)
	}
}

func TestConfirmCreate_ClosesBeforeCallSettles(t *testing.T) {
	h := newHarness(t)
	h.ctrl.OpenCreate()

	var openDuringCall, busyDuringCall bool
	h.repo.OnCall = func(op string) {
		if op == "create" {
			openDuringCall = h.create.Visible()
			busyDuringCall = h.ctrl.Busy()
		}
	}

	if err := h.ctrl.ConfirmCreate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if openDuringCall {
		t.Error("expected create modal closed before the create call settled")
	}
	if !busyDuringCall {
		t.Error("expected busy while create was outstanding")
	}
}

func TestConfirmCreate_FailureStillCloses(t *testing.T) {
	h := newHarness(t)
	h.repo.CreateErr = errBoom
	h.ctrl.OpenCreate()

	err := h.ctrl.ConfirmCreate(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if h.create.Visible() {
		t.Error("expected create modal closed even on failure")
	}
	if h.ctrl.Busy() {
		t.Error("expected busy cleared")
	}
	if calls := h.repo.Calls(); len(calls) != 1 {
		t.Errorf("expected no refresh after failed create, got %v", calls)
	}
	if len(h.errs) != 1 || h.errs[0] != controller.OpCreate {
		t.Errorf("expected create failure reported, got %v", h.errs)
	}
}

func TestConfirmUpdate_Success(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A"})
	if err := h.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.ctrl.OpenEdit(h.ctrl.Tasks()[0])
	h.ctrl.EditDraft(func(d *service.Task) { d.Nombre = "A2" })

	if err := h.ctrl.ConfirmUpdate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.edit.Visible() {
		t.Error("expected edit modal closed")
	}
	if got := h.ctrl.Tasks()[0].Nombre; got != "A2" {
		t.Errorf("expected refreshed nombre A2, got %q", got)
	}
}

func TestConfirmUpdate_FailureKeepsModalOpen(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A"})
	if err := h.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.ctrl.OpenEdit(h.ctrl.Tasks()[0])
	h.ctrl.EditDraft(func(d *service.Task) { d.Nombre = "A2" })

	h.repo.UpdateErr = errBoom
	var busyDuring bool
	h.repo.OnCall = func(op string) { busyDuring = h.ctrl.Busy() }

	err := h.ctrl.ConfirmUpdate(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if !busyDuring {
		t.Error("expected busy during update")
	}
	if h.ctrl.Busy() {
		t.Error("expected busy cleared after failed update")
	}
	if !h.edit.Visible() {
		t.Error("expected edit modal still open")
	}
	if got := h.ctrl.Tasks()[0].Nombre; got != "A" {
		t.Errorf("expected list unchanged, got %q", got)
	}
	if h.ctrl.Draft().Nombre != "A2" {
		t.Error("expected draft kept for another attempt")
	}
}

func TestConfirmDelete_Success(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A"})
	h.repo.AddTask(service.Task{ID: "2", Nombre: "B"})
	if err := h.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.ctrl.OpenDelete(h.ctrl.Tasks()[0])
	if err := h.ctrl.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if h.delete.Visible() {
		t.Error("expected delete modal closed")
	}
	tasks := h.ctrl.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "2" {
		t.Errorf("unexpected list after delete: %+v", tasks)
	}
}

func TestConfirmDelete_FailureKeepsModalOpen(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A"})
	if err := h.ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.ctrl.OpenDelete(h.ctrl.Tasks()[0])
	h.repo.DeleteErr = errBoom

	if err := h.ctrl.ConfirmDelete(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if !h.delete.Visible() {
		t.Error("expected delete modal still open")
	}
	if len(h.ctrl.Tasks()) != 1 {
		t.Error("expected list unchanged")
	}
	if h.ctrl.Busy() {
		t.Error("expected busy cleared")
	}
	if len(h.errs) != 1 || h.errs[0] != controller.OpDelete {
		t.Errorf("expected delete failure reported, got %v", h.errs)
	}
}

func TestConfirmDelete_MissingID(t *testing.T) {
	h := newHarness(t)
	h.ctrl.OpenDelete(service.Task{Nombre: "never saved"})

	err := h.ctrl.ConfirmDelete(context.Background())
	if !errors.Is(err, service.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if !h.delete.Visible() {
		t.Error("expected delete modal still open")
	}
}

func TestConfirmUpdate_RefreshFailureStillCloses(t *testing.T) {
	h := newHarness(t)
	h.repo.AddTask(service.Task{ID: "1", Nombre: "A"})
	h.ctrl.OpenEdit(service.Task{ID: "1", Nombre: "A2"})

	h.repo.OnCall = func(op string) {
		if op == "update" {
			h.repo.ListErr = errBoom
		}
	}

	if err := h.ctrl.ConfirmUpdate(context.Background()); err != nil {
		t.Fatalf("expected mutation success, got %v", err)
	}
	if h.edit.Visible() {
		t.Error("expected edit modal closed after successful update")
	}
	if len(h.errs) != 1 || h.errs[0] != controller.OpRefresh {
		t.Errorf("expected refresh failure reported, got %v", h.errs)
	}
}

func TestCancel_ClosesEverything(t *testing.T) {
	tests := []struct {
		name string
		open func(h *harness)
	}{
		{"none open", func(h *harness) {}},
		{"create open", func(h *harness) { h.ctrl.OpenCreate() }},
		{"all open", func(h *harness) {
			h.create.Show()
			h.edit.Show()
			h.delete.Show()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.open(h)

			h.ctrl.Cancel()
			h.ctrl.Cancel()

			if h.create.Visible() || h.edit.Visible() || h.delete.Visible() {
				t.Error("expected all modals closed")
			}
		})
	}
}

func TestDefaultErrorHandler(t *testing.T) {
	repo := testutil.NewFakeRepository()
	repo.ListErr = errBoom
	ctrl := controller.New(repo, controller.Modals{
		Create: ui.NewModal("create", nil),
		Edit:   ui.NewModal("edit", nil),
		Delete: ui.NewModal("delete", nil),
	})

	// The default handler logs and swallows; the error is still returned.
	if err := ctrl.Refresh(context.Background()); !errors.Is(err, errBoom) {
		t.Errorf("expected boom, got %v", err)
	}
}

// busyOnHide is a modal that records the controller's busy flag when hidden.
type busyOnHide struct {
	ctrl   **controller.Controller
	hidden []bool
}

func (m *busyOnHide) Show() {}
func (m *busyOnHide) Hide() { m.hidden = append(m.hidden, (*m.ctrl).Busy()) }

func TestConfirm_BusyUntilModalCloses(t *testing.T) {
	tests := []struct {
		name    string
		confirm func(*controller.Controller) error
	}{
		{"update", func(c *controller.Controller) error { return c.ConfirmUpdate(context.Background()) }},
		{"delete", func(c *controller.Controller) error { return c.ConfirmDelete(context.Background()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewFakeRepository()
			repo.AddTask(service.Task{ID: "1", Nombre: "A"})

			var ctrl *controller.Controller
			modal := &busyOnHide{ctrl: &ctrl}
			ctrl = controller.New(repo, controller.Modals{Create: modal, Edit: modal, Delete: modal})

			ctrl.OpenEdit(service.Task{ID: "1", Nombre: "B"})
			if err := tt.confirm(ctrl); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(modal.hidden) != 1 || !modal.hidden[0] {
				t.Errorf("expected busy while the modal closes, got %v", modal.hidden)
			}
			if ctrl.Busy() {
				t.Error("expected not busy after confirm returns")
			}
		})
	}
}
