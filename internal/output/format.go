// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"tareas/internal/i18n"
	"tareas/internal/service"
)

// NoDate is shown for a task without fechaLimite.
const NoDate = "-"

// FormatTaskTable writes the task list as a table: a header with the
// id, nombre and fechaLimite columns, then one numbered line per task.
// Format per line: "{N:>4}  {ID:<w}  {NOMBRE:<w}  {FECHA}\n".
func FormatTaskTable(w io.Writer, tr *i18n.Translator, tasks []service.Task) {
	idHeader := tr.T(i18n.KeyID)
	nombreHeader := tr.T(i18n.KeyNombre)

	idWidth := utf8.RuneCountInString(idHeader)
	nombreWidth := utf8.RuneCountInString(nombreHeader)
	nombres := make([]string, len(tasks))
	for i, task := range tasks {
		nombres[i] = FormatNombre(tr, task.Nombre)
		idWidth = max(idWidth, utf8.RuneCountInString(task.ID))
		nombreWidth = max(nombreWidth, utf8.RuneCountInString(nombres[i]))
	}

	fmt.Fprintf(w, "%4s  %s  %s  %s\n", "#", pad(idHeader, idWidth), pad(nombreHeader, nombreWidth), tr.T(i18n.KeyFechaLimite))
	for i, task := range tasks {
		fmt.Fprintf(w, "%4d  %s  %s  %s\n", i+1, pad(task.ID, idWidth), pad(nombres[i], nombreWidth), FormatDate(task))
	}
}

// FormatDraft writes what a modal shows: its title and the draft fields.
func FormatDraft(w io.Writer, tr *i18n.Translator, title string, task service.Task) {
	fmt.Fprintln(w, title)
	if task.ID != "" {
		fmt.Fprintf(w, "  %s: %s\n", tr.T(i18n.KeyID), task.ID)
	}
	fmt.Fprintf(w, "  %s: %s\n", tr.T(i18n.KeyNombre), FormatNombre(tr, task.Nombre))
	fmt.Fprintf(w, "  %s: %s\n", tr.T(i18n.KeyFechaLimite), FormatDate(task))
}

// FormatDate renders a task's due date, or NoDate.
func FormatDate(task service.Task) string {
	if task.FechaLimite == nil {
		return NoDate
	}
	return service.FormatFechaLimite(*task.FechaLimite)
}

// FormatNombre renders a task name on one line.
// - Empty or whitespace-only names become the translated "(untitled)"
// - Newlines are replaced with spaces
func FormatNombre(tr *i18n.Translator, nombre string) string {
	nombre = strings.ReplaceAll(nombre, "\r", " ")
	nombre = strings.ReplaceAll(nombre, "\n", " ")

	if strings.TrimSpace(nombre) == "" {
		return tr.T(i18n.KeyUntitled)
	}
	return nombre
}

// pad right-pads s with spaces to width runes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
