package engine

import (
	"errors"
	"fmt"
)

// ErrConfirmationRequired is returned by an add that was given no
// confirmation capability.
var ErrConfirmationRequired = errors.New("bookmark confirmation required")

// PersistenceError reports a failed write of the bookmark list. The in-memory
// mutation it accompanies has already been applied.
type PersistenceError struct {
	Op  string // "add" | "remove"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("bookmarks: %s applied but not persisted: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
