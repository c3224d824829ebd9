package store

import (
	"errors"
	"fmt"
)

// ErrInvalidPath is returned for empty, malformed or root-level writes.
var ErrInvalidPath = errors.New("invalid document path")

// PersistenceError indicates a read or write against the backing database
// failed. Callers keep their in-memory state and may retry.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
