// Package ui holds the terminal surfaces the task list controller drives.
package ui

import (
	"sync"

	"go.uber.org/zap"
)

// Modal is a confirmation surface with open/closed visibility.
// It satisfies controller.Modal.
type Modal struct {
	name   string
	logger *zap.Logger

	mu      sync.Mutex
	visible bool
	shown   int
}

// NewModal returns a closed modal. A nil logger is allowed.
func NewModal(name string, logger *zap.Logger) *Modal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Modal{name: name, logger: logger}
}

// Name returns the modal name.
func (m *Modal) Name() string { return m.name }

// Show opens the modal.
func (m *Modal) Show() {
	m.mu.Lock()
	m.visible = true
	m.shown++
	m.mu.Unlock()
	m.logger.Debug("modal shown", zap.String("modal", m.name))
}

// Hide closes the modal. Hiding a closed modal is a no-op.
func (m *Modal) Hide() {
	m.mu.Lock()
	m.visible = false
	m.mu.Unlock()
	m.logger.Debug("modal hidden", zap.String("modal", m.name))
}

// Visible reports whether the modal is open.
func (m *Modal) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// TimesShown counts Show calls.
func (m *Modal) TimesShown() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}
