package repositories

import "fmt"

// Error is the concrete RepositoryError implementation shared by storage backends.
type Error struct {
	Op          string
	Err         error
	NotFound    bool
	Unavailable bool
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("repository: %s failed", e.Op)
	}
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// IsNotFound implements RepositoryError.
func (e *Error) IsNotFound() bool { return e.NotFound }

// IsUnavailable implements RepositoryError.
func (e *Error) IsUnavailable() bool { return e.Unavailable }

// NewNotFound builds a not-found repository error.
func NewNotFound(op string, err error) *Error {
	return &Error{Op: op, Err: err, NotFound: true}
}

// NewUnavailable builds an unavailable repository error.
func NewUnavailable(op string, err error) *Error {
	return &Error{Op: op, Err: err, Unavailable: true}
}
