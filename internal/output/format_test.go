package output_test

import (
	"bytes"
	"testing"
	"time"

	"tareas/internal/i18n"
	"tareas/internal/output"
	"tareas/internal/service"
	"tareas/internal/testutil"
)

func sampleTasks() []service.Task {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	return []service.Task{
		{ID: "1", Nombre: "Comprar pan", FechaLimite: &jan},
		{ID: "12", Nombre: "  "},
		{ID: "3", Nombre: "Llamar\nal médico", FechaLimite: &mar},
	}
}

func TestFormatTaskTable_English(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskTable(&buf, i18n.New("en"), sampleTasks())
	testutil.Golden(t, "table_en", buf.Bytes())
}

func TestFormatTaskTable_Spanish(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskTable(&buf, i18n.New("es"), sampleTasks())
	testutil.Golden(t, "table_es", buf.Bytes())
}

func TestFormatTaskTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskTable(&buf, i18n.New("en"), nil)

	expected := "   #  ID  Name  Due date\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatDraft(t *testing.T) {
	tr := i18n.New("en")

	var buf bytes.Buffer
	output.FormatDraft(&buf, tr, "New task", service.NewTask())
	expected := "New task\n  Name: (untitled)\n  Due date: -\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}

	buf.Reset()
	output.FormatDraft(&buf, tr, "Edit task", sampleTasks()[0])
	expected = "Edit task\n  ID: 1\n  Name: Comprar pan\n  Due date: 2024-01-01\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}
