package domain

import (
	"errors"
	"fmt"
)

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound = errors.New("task not found")
	ErrEmptyTitle   = errors.New("title is required")
	ErrTitleTooLong = errors.New("title is too long")

	// Category errors
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryExists    = errors.New("category already exists")
	ErrEmptyCategoryName = errors.New("category name is required")

	// Validation errors
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidFilter   = errors.New("invalid filter value")
	ErrInvalidSortKey  = errors.New("invalid sort key")
)

// StoreError wraps any failure coming from a persistence backend.
// Callers surface it as a retryable failure; the wrapped error keeps
// not-found and conflict conditions visible to errors.Is.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err with the failing operation name. A nil err yields nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err came from a store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
