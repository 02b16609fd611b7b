// Package store persists simulation run metadata and manages the
// checkpoint files a run leaves behind in its swarm directory.
package store

// ErrNotFound is returned when a requested run record does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run record.
type NotFoundError struct {
	Dir string
}

func (e *NotFoundError) Error() string {
	if e.Dir != "" {
		return "run record not found in " + e.Dir
	}
	return "run record not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
