package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tareas/internal/service"
)

// IDPrefix marks a task reference by backend id, e.g. "id:42".
const IDPrefix = "id:"

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int    // 1-based position as shown by list; 0 when ID is set
	ID  string // backend id; empty when Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ErrTaskNotFound indicates the reference matches no task in the current list.
var ErrTaskNotFound = errors.New("task not found")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. No args → ErrTaskRefRequired
// 2. All digits → position in the list (e.g. 3)
// 3. "id:<id>" → backend id (e.g. id:6571f0c2)
// 4. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := strings.TrimSpace(args[0])

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if id, ok := strings.CutPrefix(arg, IDPrefix); ok && id != "" {
		return TaskRef{ID: id}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// String renders the reference the way a user would type it.
func (r TaskRef) String() string {
	if r.ID != "" {
		return IDPrefix + r.ID
	}
	return strconv.Itoa(r.Num)
}

// Resolve finds the referenced task in tasks.
func (r TaskRef) Resolve(tasks []service.Task) (service.Task, error) {
	if r.ID != "" {
		for _, t := range tasks {
			if t.ID == r.ID {
				return t, nil
			}
		}
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, r)
	}
	if r.Num < 1 || r.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, r)
	}
	return tasks[r.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
