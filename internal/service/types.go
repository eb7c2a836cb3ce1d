// Package service defines the backend-agnostic types and interface for task operations.
package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Task represents a single tarea.
type Task struct {
	// ID is assigned by the backend. Empty for a task that was never persisted.
	ID string

	// Nombre is the short text label.
	Nombre string

	// FechaLimite is the due date. Nil when the task has none.
	FechaLimite *time.Time
}

// NewTask returns an empty task: no id, no due date.
func NewTask() Task {
	return Task{}
}

// Persisted reports whether the task carries a backend identifier.
func (t Task) Persisted() bool {
	return t.ID != ""
}

// Clone returns a field-by-field copy of t.
// The copy owns its FechaLimite pointer, holding the same instant as t.
func (t Task) Clone() Task {
	c := Task{
		ID:     t.ID,
		Nombre: t.Nombre,
	}
	if t.FechaLimite != nil {
		due := *t.FechaLimite
		c.FechaLimite = &due
	}
	return c
}

// dateLayouts are the date-like forms accepted for fechaLimite, tried in order.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseFechaLimite parses a date-like string into a UTC time.
// A bare date is midnight UTC; a zone-less date-time is local time.
func ParseFechaLimite(s string) (time.Time, error) {
	return ParseFechaLimiteIn(s, time.Local)
}

// ParseFechaLimiteIn is ParseFechaLimite with zone-less date-times read in loc.
func ParseFechaLimiteIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		zone := loc
		if layout == time.DateOnly {
			zone = time.UTC
		}
		if ts, err := time.ParseInLocation(layout, s, zone); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid fechaLimite: %q", s)
}

// FormatFechaLimite renders t as a date when it falls on midnight UTC,
// otherwise as RFC 3339.
func FormatFechaLimite(t time.Time) string {
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return u.Format(time.DateOnly)
	}
	return u.Format(time.RFC3339)
}

// taskJSON is the wire shape of a Task.
type taskJSON struct {
	ID          string `json:"id,omitempty"`
	Nombre      string `json:"nombre,omitempty"`
	FechaLimite string `json:"fechaLimite,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Task) MarshalJSON() ([]byte, error) {
	w := taskJSON{ID: t.ID, Nombre: t.Nombre}
	if t.FechaLimite != nil {
		w.FechaLimite = FormatFechaLimite(*t.FechaLimite)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
// A non-empty fechaLimite is coerced into a time value.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Task{ID: w.ID, Nombre: w.Nombre}
	if w.FechaLimite != "" {
		due, err := ParseFechaLimite(w.FechaLimite)
		if err != nil {
			return err
		}
		t.FechaLimite = &due
	}
	return nil
}
