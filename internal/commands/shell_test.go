package commands_test

import (
	"errors"
	"strings"
	"testing"

	"tareas/internal/commands"
	"tareas/internal/exitcode"
	"tareas/internal/testutil"
)

func runShell(t *testing.T, repo *testutil.FakeRepository, script string) (stdout, stderr string, code int) {
	t.Helper()
	cmd := &commands.ShellCmd{}
	cmd.SetInput(strings.NewReader(script))
	return runCommand(t, cmd, repo, nil, false)
}

func TestShellCommand_Create(t *testing.T) {
	repo := testutil.NewFakeRepository()

	stdout, stderr, code := runShell(t, repo, "new\nset nombre Comprar pan\nset fecha 2024-01-01\nok\nquit\n")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	stored := repo.Stored()
	if len(stored) != 1 || stored[0].Nombre != "Comprar pan" || stored[0].FechaLimite == nil {
		t.Fatalf("unexpected stored tasks %+v", stored)
	}
	if !strings.Contains(stdout, "New task\n") {
		t.Errorf("create modal should be shown, got %q", stdout)
	}
	if !strings.Contains(stdout, "   1  1   Comprar pan  2024-01-01\n") {
		t.Errorf("list should be shown after create, got %q", stdout)
	}
	assertCalls(t, repo, "list", "create", "list")
}

func TestShellCommand_EditAndDelete(t *testing.T) {
	repo := seeded()

	_, stderr, code := runShell(t, repo, "edit 2\nset nombre Llamar al médico\nset fecha -\nok\ndelete 1\nok\n")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	stored := repo.Stored()
	if len(stored) != 1 || stored[0].ID != "2" || stored[0].Nombre != "Llamar al médico" {
		t.Errorf("unexpected stored tasks %+v", stored)
	}
	assertCalls(t, repo, "list", "update", "list", "delete", "list")
}

func TestShellCommand_DeleteAsks(t *testing.T) {
	repo := seeded()

	stdout, _, _ := runShell(t, repo, "delete 1\ncancel\n")

	if !strings.Contains(stdout, "Delete task Comprar pan?") {
		t.Errorf("expected delete question, got %q", stdout)
	}
	if len(repo.Stored()) != 2 {
		t.Error("cancel must not delete")
	}
}

func TestShellCommand_CancelDiscardsDraft(t *testing.T) {
	repo := seeded()

	_, stderr, _ := runShell(t, repo, "edit 1\nset nombre otro\ncancel\nok\n")

	if repo.Stored()[0].Nombre != "Comprar pan" {
		t.Error("cancelled edit must not be saved")
	}
	if stderr != "nothing to confirm\n" {
		t.Errorf("expected 'nothing to confirm', got %q", stderr)
	}
	assertCalls(t, repo, "list")
}

func TestShellCommand_FailedUpdateKeepsModalOpen(t *testing.T) {
	repo := seeded()
	repo.UpdateErr = errors.New("status 500")

	stdout, stderr, _ := runShell(t, repo, "edit 1\nset nombre otro\nok\nshow\n")

	if stderr != "error: backend error: update tareas: status 500\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := strings.Count(stdout, "Edit task\n"); n != 2 {
		t.Errorf("edit modal should still be open after failure, shown %d times", n)
	}
	if !strings.Contains(stdout, "  Name: otro\n") {
		t.Errorf("draft should keep the user's input, got %q", stdout)
	}
}

func TestShellCommand_FailedCreateClosesModal(t *testing.T) {
	repo := testutil.NewFakeRepository()
	repo.CreateErr = errors.New("status 500")

	_, stderr, _ := runShell(t, repo, "new\nset nombre x\nok\nok\n")

	want := "error: backend error: create tareas: status 500\nnothing to confirm\n"
	if stderr != want {
		t.Errorf("expected stderr %q, got %q", want, stderr)
	}
}

func TestShellCommand_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr string
	}{
		{"unknown command", "frobnicate\n", "unknown command: frobnicate\n"},
		{"set without modal", "set nombre x\n", "nothing to confirm\n"},
		{"bad date", "new\nset fecha mañana\n", "error: invalid fechaLimite"},
		{"bad ref", "edit 9\n", "error: task not found: 9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runShell(t, seeded(), tt.script)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if !strings.HasPrefix(stderr, tt.wantErr) {
				t.Errorf("expected stderr starting with %q, got %q", tt.wantErr, stderr)
			}
		})
	}
}

func TestShellCommand_OneModalAtATime(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		wantCalls []string
		wantFirst string // nombre of task 1 afterwards
		wantLen   int
	}{
		{
			name:      "edit while creating confirms the create",
			script:    "new\nedit 1\nset nombre Cambiado\nok\nquit\n",
			wantCalls: []string{"list", "create", "list"},
			wantFirst: "Comprar pan",
			wantLen:   3,
		},
		{
			name:      "delete while editing confirms the edit",
			script:    "edit 1\ndelete 2\nset nombre Cambiado\nok\nquit\n",
			wantCalls: []string{"list", "update", "list"},
			wantFirst: "Cambiado",
			wantLen:   2,
		},
		{
			name:      "new while deleting",
			script:    "delete 2\nnew\ncancel\nquit\n",
			wantCalls: []string{"list"},
			wantFirst: "Comprar pan",
			wantLen:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := seeded()

			_, stderr, _ := runShell(t, repo, tt.script)

			if stderr != "finish the open dialog first: ok or cancel\n" {
				t.Errorf("expected open dialog message, got %q", stderr)
			}
			assertCalls(t, repo, tt.wantCalls...)
			stored := repo.Stored()
			if len(stored) != tt.wantLen {
				t.Fatalf("expected %d stored tasks, got %+v", tt.wantLen, stored)
			}
			if stored[0].Nombre != tt.wantFirst {
				t.Errorf("expected task 1 nombre %q, got %q", tt.wantFirst, stored[0].Nombre)
			}
		})
	}
}
