package store

import "fmt"

// ValidationError reports a rejected input, e.g. a whitespace-only rename.
// The store is unchanged when it is returned.
type ValidationError struct {
	// Field names the offending input field.
	Field string
	// Reason is a short human-readable explanation.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation referencing an id that is absent from
// the expected collection. It indicates a caller/UI sync bug, not data loss.
type NotFoundError struct {
	// ID is the identifier that was not found.
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("draft not found: %s", e.ID)
}

// InvariantViolation reports an operation that would break a structural
// invariant, such as deleting the last remaining draft.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return e.Reason
}

// PersistenceError wraps a failed write to the underlying store. In-memory
// state is kept when it is returned; the next commit is the retry path.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
