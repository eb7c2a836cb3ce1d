// Package exitcode defines the process exit codes of tareas.
package exitcode

const (
	// Success means the command did what it was asked.
	Success = 0

	// UserError covers bad arguments, unknown task references and
	// invalid dates.
	UserError = 1

	// AuthError covers an unreadable configuration or missing credentials.
	AuthError = 2

	// BackendError covers any failed repository call: network errors,
	// non-2xx responses and undecodable payloads.
	BackendError = 3
)
